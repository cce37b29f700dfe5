package topology

import (
	"testing"

	"github.com/chazu/meshlens/pkg/mesh"
)

func tetrahedron() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []mesh.Point{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}},
		Faces:    []mesh.Face{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {2, 1, 3}},
	}
}

func cube() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []mesh.Point{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Faces: []mesh.Face{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{3, 7, 6}, {3, 6, 2}, // back
			{0, 4, 7}, {0, 7, 3}, // left
			{1, 2, 6}, {1, 6, 5}, // right
		},
	}
}

func TestValidateClosedSolids(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *mesh.Mesh
		wantEdges int
	}{
		{"tetrahedron", tetrahedron(), 6},
		{"cube", cube(), 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.mesh)
			if !res.Watertight {
				t.Fatalf("Watertight = false, want true (%+v)", res)
			}
			if res.Message != MessageWatertight {
				t.Errorf("Message = %q, want %q", res.Message, MessageWatertight)
			}
			if res.Edges != tt.wantEdges {
				t.Errorf("Edges = %d, want %d", res.Edges, tt.wantEdges)
			}
			if res.BoundaryEdges != 0 || res.NonManifoldEdges != 0 {
				t.Errorf("boundary/non-manifold = %d/%d, want 0/0", res.BoundaryEdges, res.NonManifoldEdges)
			}
			if !res.ConsistentWinding {
				t.Error("ConsistentWinding = false, want true")
			}
			if res.EulerCharacteristic != 2 {
				t.Errorf("EulerCharacteristic = %d, want 2", res.EulerCharacteristic)
			}
		})
	}
}

func TestValidateMissingFace(t *testing.T) {
	m := tetrahedron()
	m.Faces = m.Faces[:3]

	res := Validate(m)
	if res.Watertight {
		t.Fatal("Watertight = true for open tetrahedron, want false")
	}
	if res.Message != MessageNotWatertight {
		t.Errorf("Message = %q, want %q", res.Message, MessageNotWatertight)
	}
	if res.BoundaryEdges != 3 {
		t.Errorf("BoundaryEdges = %d, want 3", res.BoundaryEdges)
	}
}

func TestValidateNonManifoldEdge(t *testing.T) {
	// Closed tetrahedron plus a fin hanging off edge 0-1.
	m := tetrahedron()
	m.Vertices = append(m.Vertices, mesh.Point{X: -1, Y: -1, Z: -1})
	m.Faces = append(m.Faces, mesh.Face{0, 1, 4})

	res := Validate(m)
	if res.Watertight {
		t.Fatal("Watertight = true with a non-manifold edge, want false")
	}
	if res.NonManifoldEdges != 1 {
		t.Errorf("NonManifoldEdges = %d, want 1", res.NonManifoldEdges)
	}
	if res.BoundaryEdges != 2 {
		t.Errorf("BoundaryEdges = %d, want 2", res.BoundaryEdges)
	}
}

func TestValidateDuplicatedFaceIsNonManifold(t *testing.T) {
	m := tetrahedron()
	m.Faces = append(m.Faces, m.Faces[0])

	res := Validate(m)
	if res.Watertight {
		t.Fatal("Watertight = true with a doubled face, want false")
	}
	if res.NonManifoldEdges != 3 {
		t.Errorf("NonManifoldEdges = %d, want 3", res.NonManifoldEdges)
	}
}

func TestValidateOppositeWindingSharesKey(t *testing.T) {
	// Flipping one face keeps each edge count at 2: still watertight, but
	// the winding is no longer consistent.
	m := tetrahedron()
	f := m.Faces[3]
	m.Faces[3] = mesh.Face{f[0], f[2], f[1]}

	res := Validate(m)
	if !res.Watertight {
		t.Fatal("Watertight = false, want true")
	}
	if res.ConsistentWinding {
		t.Error("ConsistentWinding = true after flipping a face, want false")
	}
}

func TestValidateEmpty(t *testing.T) {
	for _, m := range []*mesh.Mesh{{}, mesh.Normalize(&mesh.RawBlock{})} {
		res := Validate(m)
		if res.Watertight {
			t.Error("empty mesh reported watertight")
		}
		if res.Message != MessageNotWatertight {
			t.Errorf("Message = %q, want %q", res.Message, MessageNotWatertight)
		}
		if res.Edges != 0 || res.ConsistentWinding {
			t.Errorf("unexpected diagnostics for empty mesh: %+v", res)
		}
	}
}

func TestValidateSingleTriangle(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []mesh.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Faces:    []mesh.Face{{0, 1, 2}},
	}
	res := Validate(m)
	if res.Watertight {
		t.Error("single triangle reported watertight")
	}
	if res.BoundaryEdges != 3 {
		t.Errorf("BoundaryEdges = %d, want 3", res.BoundaryEdges)
	}
}

func TestMakeEdgeKeyOrderIndependent(t *testing.T) {
	if makeEdgeKey(3, 7) != makeEdgeKey(7, 3) {
		t.Error("makeEdgeKey(3,7) != makeEdgeKey(7,3)")
	}
	if k := makeEdgeKey(9, 2); k.lo != 2 || k.hi != 9 {
		t.Errorf("makeEdgeKey(9,2) = %+v, want {2 9}", k)
	}
}
