package mesh

import (
	"math"

	"github.com/chewxy/math32"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Size returns the box extent along each axis.
func (b Bounds) Size() Point {
	return Point{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Stats is the scalar summary of a loaded mesh.
type Stats struct {
	FileSizeKB  float64 `json:"fileSizeKB"`
	VertexCount int     `json:"vertexCount"`
	FaceCount   int     `json:"faceCount"`
	Bounds      Bounds  `json:"bounds"`
	SurfaceArea float32 `json:"surfaceArea"`
}

// Collect derives Stats from a mesh and the byte length of the file it was
// decoded from. FileSizeKB is rounded to two decimals. Collect never fails;
// the empty mesh yields zero counts, a zero box, and zero area.
func Collect(m *Mesh, byteSize int64) Stats {
	return Stats{
		FileSizeKB:  roundTo2(float64(byteSize) / 1024),
		VertexCount: m.VertexCount(),
		FaceCount:   m.FaceCount(),
		Bounds:      boundsOf(m.Vertices),
		SurfaceArea: surfaceArea(m),
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func boundsOf(pts []Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Min.Z = min(b.Min.Z, p.Z)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
		b.Max.Z = max(b.Max.Z, p.Z)
	}
	return b
}

// surfaceArea sums |ab x ac| / 2 over all triangles.
func surfaceArea(m *Mesh) float32 {
	var total float32
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
		vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
		cx := uy*vz - uz*vy
		cy := uz*vx - ux*vz
		cz := ux*vy - uy*vx
		total += math32.Sqrt(cx*cx+cy*cy+cz*cz) / 2
	}
	return total
}
