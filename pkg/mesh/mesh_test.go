package mesh

import (
	"math"
	"testing"
)

// soup builds a triangle-soup RawBlock: three fresh vertices per triangle.
func soup(tris ...[3]Point) *RawBlock {
	b := &RawBlock{}
	for i, t := range tris {
		b.Vertices = append(b.Vertices, t[0], t[1], t[2])
		n := uint32(i * 3)
		b.Faces = append(b.Faces, Face{n, n + 1, n + 2})
	}
	return b
}

var (
	p0 = Point{0, 0, 0}
	p1 = Point{1, 0, 0}
	p2 = Point{0, 1, 0}
	p3 = Point{0, 0, 1}
)

func tetraSoup() *RawBlock {
	return soup(
		[3]Point{p0, p2, p1},
		[3]Point{p0, p1, p3},
		[3]Point{p0, p3, p2},
		[3]Point{p1, p2, p3},
	)
}

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		wantVerts int
		wantFaces int
		wantEmpty bool
	}{
		{"empty", &Mesh{}, 0, 0, true},
		{"vertices only", &Mesh{Vertices: []Point{p0, p1}}, 2, 0, true},
		{"one triangle", &Mesh{Vertices: []Point{p0, p1, p2}, Faces: []Face{{0, 1, 2}}}, 3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := tt.mesh.FaceCount(); got != tt.wantFaces {
				t.Errorf("FaceCount() = %d, want %d", got, tt.wantFaces)
			}
			if got := tt.mesh.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestRawBlockFacetCountNil(t *testing.T) {
	var b *RawBlock
	if b.FacetCount() != 0 {
		t.Errorf("nil FacetCount() = %d, want 0", b.FacetCount())
	}
}

// --- Normalize ---

func TestNormalizeTetrahedron(t *testing.T) {
	m := Normalize(tetraSoup())

	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.FaceCount() != 4 {
		t.Fatalf("FaceCount() = %d, want 4", m.FaceCount())
	}
	// First-seen order: p0, p2, p1, p3.
	want := []Point{p0, p2, p1, p3}
	for i, p := range want {
		if m.Vertices[i] != p {
			t.Errorf("Vertices[%d] = %v, want %v", i, m.Vertices[i], p)
		}
	}
	if m.Faces[0] != (Face{0, 1, 2}) {
		t.Errorf("Faces[0] = %v, want [0 1 2]", m.Faces[0])
	}
	if m.Faces[3] != (Face{2, 1, 3}) {
		t.Errorf("Faces[3] = %v, want [2 1 3]", m.Faces[3])
	}
}

func TestNormalizeSharedVertexAppearsOnce(t *testing.T) {
	shared := Point{0.5, 0.25, 0.125}
	b := soup(
		[3]Point{shared, p1, p2},
		[3]Point{p3, shared, Point{2, 2, 2}},
	)
	m := Normalize(b)

	count := 0
	for _, v := range m.Vertices {
		if v == shared {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("shared vertex appears %d times, want 1", count)
	}
	if m.Faces[0][0] != m.Faces[1][1] {
		t.Errorf("faces reference shared vertex as %d and %d, want same index", m.Faces[0][0], m.Faces[1][1])
	}
	if m.VertexCount() != 5 {
		t.Errorf("VertexCount() = %d, want 5", m.VertexCount())
	}
}

func TestNormalizeNoRepeatsKeepsAllVertices(t *testing.T) {
	b := soup(
		[3]Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[3]Point{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}},
	)
	m := Normalize(b)
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6", m.VertexCount())
	}
	if m.FaceCount() != 2 {
		t.Errorf("FaceCount() = %d, want 2", m.FaceCount())
	}
}

func TestNormalizeBitExact(t *testing.T) {
	near := Point{math.Nextafter32(1, 2), 0, 0}
	negZero := Point{float32(math.Copysign(0, -1)), 0, 0}
	b := soup(
		[3]Point{p1, p2, p3},
		[3]Point{near, p2, p3},
		[3]Point{negZero, p2, p3},
		[3]Point{p0, p2, p3},
	)
	m := Normalize(b)
	// p1, p2, p3, near, -0, p0: nothing is welded.
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6 (no epsilon or signed-zero merging)", m.VertexCount())
	}
}

func TestNormalizeDropsDegenerateFaces(t *testing.T) {
	tests := []struct {
		name string
		tri  [3]Point
	}{
		{"first two equal", [3]Point{p1, p1, p2}},
		{"last two equal", [3]Point{p1, p2, p2}},
		{"outer equal", [3]Point{p2, p1, p2}},
		{"all equal", [3]Point{p3, p3, p3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Normalize(soup([3]Point{p0, p1, p2}, tt.tri))
			if m.FaceCount() != 1 {
				t.Errorf("FaceCount() = %d, want 1", m.FaceCount())
			}
			if m.DroppedFaces != 1 {
				t.Errorf("DroppedFaces = %d, want 1", m.DroppedFaces)
			}
			for _, f := range m.Faces {
				for _, idx := range f {
					if int(idx) >= m.VertexCount() {
						t.Errorf("face index %d out of range (%d vertices)", idx, m.VertexCount())
					}
				}
			}
		})
	}
}

func TestNormalizeDegenerateOnlyVertexNotKept(t *testing.T) {
	lone := Point{9, 9, 9}
	m := Normalize(soup([3]Point{p0, p1, p2}, [3]Point{lone, lone, p0}))
	for _, v := range m.Vertices {
		if v == lone {
			t.Fatal("vertex referenced only by a dropped face was kept")
		}
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", m.VertexCount())
	}
}

func TestNormalizeIndexedInput(t *testing.T) {
	// Indexed input with an unreferenced pool vertex and a duplicate position.
	b := &RawBlock{
		Vertices: []Point{p0, p1, p2, {7, 7, 7}, p1},
		Faces:    []Face{{0, 1, 2}, {4, 2, 0}},
	}
	m := Normalize(b)
	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount() = %d, want 3", m.VertexCount())
	}
	if m.Faces[1] != (Face{1, 2, 0}) {
		t.Errorf("Faces[1] = %v, want [1 2 0]", m.Faces[1])
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, b := range []*RawBlock{nil, {}, {Vertices: []Point{p0, p1, p2}}} {
		m := Normalize(b)
		if m.VertexCount() != 0 || m.FaceCount() != 0 {
			t.Errorf("Normalize(%v) = %d vertices, %d faces, want 0, 0", b, m.VertexCount(), m.FaceCount())
		}
		if m.Vertices == nil || m.Faces == nil {
			t.Error("empty mesh slices should be non-nil")
		}
	}
}

// --- Collect ---

func TestCollect(t *testing.T) {
	m := Normalize(tetraSoup())
	s := Collect(m, 684)

	if s.VertexCount != 4 || s.FaceCount != 4 {
		t.Errorf("counts = %d/%d, want 4/4", s.VertexCount, s.FaceCount)
	}
	if s.FileSizeKB != 0.67 {
		t.Errorf("FileSizeKB = %v, want 0.67", s.FileSizeKB)
	}
	if s.Bounds.Min != p0 || s.Bounds.Max != (Point{1, 1, 1}) {
		t.Errorf("Bounds = %+v, want [0,0,0]-[1,1,1]", s.Bounds)
	}
	// Three right triangles of area 0.5 plus an equilateral of side sqrt(2).
	want := 1.5 + math.Sqrt(3)/2
	if math.Abs(float64(s.SurfaceArea)-want) > 1e-5 {
		t.Errorf("SurfaceArea = %v, want %v", s.SurfaceArea, want)
	}
}

func TestCollectRounding(t *testing.T) {
	tests := []struct {
		bytes int64
		want  float64
	}{
		{0, 0},
		{1024, 1},
		{1536, 1.5},
		{1000, 0.98},
		{1048576, 1024},
	}
	for _, tt := range tests {
		if got := Collect(&Mesh{}, tt.bytes).FileSizeKB; got != tt.want {
			t.Errorf("Collect(%d bytes).FileSizeKB = %v, want %v", tt.bytes, got, tt.want)
		}
	}
}

func TestCollectEmpty(t *testing.T) {
	s := Collect(Normalize(&RawBlock{}), 84)
	if s.VertexCount != 0 || s.FaceCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", s.VertexCount, s.FaceCount)
	}
	if s.Bounds != (Bounds{}) {
		t.Errorf("Bounds = %+v, want zero", s.Bounds)
	}
	if s.SurfaceArea != 0 {
		t.Errorf("SurfaceArea = %v, want 0", s.SurfaceArea)
	}
}

func TestCollectDeterministic(t *testing.T) {
	m := Normalize(tetraSoup())
	a := Collect(m, 2048)
	b := Collect(m, 2048)
	if a != b {
		t.Errorf("Collect not idempotent: %+v vs %+v", a, b)
	}
}

func TestBoundsSize(t *testing.T) {
	b := Bounds{Min: Point{-1, 0, 2}, Max: Point{3, 1, 2}}
	if got := b.Size(); got != (Point{4, 1, 0}) {
		t.Errorf("Size() = %v, want {4 1 0}", got)
	}
}

// --- Present ---

func TestPresentFlattening(t *testing.T) {
	m := Normalize(tetraSoup())
	r := Present(m)

	if len(r.X) != 4 || len(r.Y) != 4 || len(r.Z) != 4 {
		t.Fatalf("coordinate lengths = %d/%d/%d, want 4", len(r.X), len(r.Y), len(r.Z))
	}
	if len(r.I) != 4 || len(r.J) != 4 || len(r.K) != 4 {
		t.Fatalf("index lengths = %d/%d/%d, want 4", len(r.I), len(r.J), len(r.K))
	}
	for i, v := range m.Vertices {
		if r.X[i] != v.X || r.Y[i] != v.Y || r.Z[i] != v.Z {
			t.Errorf("vertex %d = (%v,%v,%v), want %v", i, r.X[i], r.Y[i], r.Z[i], v)
		}
		if r.Vertices[i*3] != v.X || r.Vertices[i*3+1] != v.Y || r.Vertices[i*3+2] != v.Z {
			t.Errorf("flat vertex %d mismatch", i)
		}
	}
	for i, f := range m.Faces {
		if r.I[i] != f[0] || r.J[i] != f[1] || r.K[i] != f[2] {
			t.Errorf("face %d = (%d,%d,%d), want %v", i, r.I[i], r.J[i], r.K[i], f)
		}
		if r.Indices[i*3] != f[0] || r.Indices[i*3+1] != f[1] || r.Indices[i*3+2] != f[2] {
			t.Errorf("flat face %d mismatch", i)
		}
	}
}

func TestPresentEmptyNonNil(t *testing.T) {
	r := Present(&Mesh{})
	if r.X == nil || r.I == nil || r.Vertices == nil || r.Indices == nil {
		t.Error("Present(empty) should return non-nil slices")
	}
}
