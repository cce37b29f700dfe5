package mesh

// Render holds the arrays a 3D viewer consumes. X/Y/Z and I/J/K are the
// parallel per-axis and per-corner arrays (plotly Mesh3d layout); Vertices
// and Indices are the same data flattened for a WebGL buffer geometry.
type Render struct {
	X []float32 `json:"x"`
	Y []float32 `json:"y"`
	Z []float32 `json:"z"`
	I []uint32  `json:"i"`
	J []uint32  `json:"j"`
	K []uint32  `json:"k"`

	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Indices  []uint32  `json:"indices"`  // [i0,j0,k0, i1,j1,k1, ...]
}

// Present reshapes a mesh into render arrays. No geometry is computed.
// All slices are non-nil so they serialize as [] rather than null.
func Present(m *Mesh) Render {
	nv, nf := len(m.Vertices), len(m.Faces)
	r := Render{
		X:        make([]float32, nv),
		Y:        make([]float32, nv),
		Z:        make([]float32, nv),
		I:        make([]uint32, nf),
		J:        make([]uint32, nf),
		K:        make([]uint32, nf),
		Vertices: make([]float32, 0, nv*3),
		Indices:  make([]uint32, 0, nf*3),
	}
	for i, p := range m.Vertices {
		r.X[i], r.Y[i], r.Z[i] = p.X, p.Y, p.Z
		r.Vertices = append(r.Vertices, p.X, p.Y, p.Z)
	}
	for i, f := range m.Faces {
		r.I[i], r.J[i], r.K[i] = f[0], f[1], f[2]
		r.Indices = append(r.Indices, f[0], f[1], f[2])
	}
	return r
}
