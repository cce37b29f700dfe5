// Package topology checks whether a canonical mesh is a closed 2-manifold
// surface by counting how many triangles share each undirected edge.
package topology

import "github.com/chazu/meshlens/pkg/mesh"

// User-facing verdict messages.
const (
	MessageWatertight    = "The mesh is watertight!"
	MessageNotWatertight = "The mesh has holes or non-manifold edges."
)

// Result is the outcome of Validate. Watertight and Message are the verdict;
// the remaining fields are diagnostics and never change it.
type Result struct {
	Watertight bool   `json:"isWatertight"`
	Message    string `json:"message"`

	Edges            int `json:"edges"`
	BoundaryEdges    int `json:"boundaryEdges"`    // shared by one triangle
	NonManifoldEdges int `json:"nonManifoldEdges"` // shared by three or more

	// ConsistentWinding is true when every edge shared by two triangles is
	// traversed once in each direction. Always false for an empty mesh.
	ConsistentWinding bool `json:"consistentWinding"`

	// EulerCharacteristic is V - E + F; 2 for a closed genus-0 surface.
	EulerCharacteristic int `json:"eulerCharacteristic"`
}

// edgeKey is an undirected edge with the smaller index first, so an edge
// walked in opposite directions by its two triangles maps to one key.
type edgeKey struct {
	lo, hi uint32
}

func makeEdgeKey(a, b uint32) edgeKey {
	if a < b {
		return edgeKey{lo: a, hi: b}
	}
	return edgeKey{lo: b, hi: a}
}

// edgeRecord counts triangle references to one edge. forward counts
// traversals from lo to hi.
type edgeRecord struct {
	count   int
	forward int
}

// Validate reports whether m is watertight: non-empty, with every edge
// shared by exactly two triangles. It is O(F) and never fails on a
// well-formed mesh.
func Validate(m *mesh.Mesh) Result {
	edges := make(map[edgeKey]*edgeRecord, len(m.Faces)*3/2)

	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			k := makeEdgeKey(a, b)
			rec, ok := edges[k]
			if !ok {
				rec = &edgeRecord{}
				edges[k] = rec
			}
			rec.count++
			if a == k.lo {
				rec.forward++
			}
		}
	}

	res := Result{
		Edges:             len(edges),
		ConsistentWinding: len(m.Faces) > 0,
	}
	for _, rec := range edges {
		switch {
		case rec.count == 1:
			res.BoundaryEdges++
		case rec.count >= 3:
			res.NonManifoldEdges++
		case rec.forward != 1:
			res.ConsistentWinding = false
		}
	}
	res.EulerCharacteristic = m.VertexCount() - res.Edges + m.FaceCount()

	res.Watertight = len(m.Faces) > 0 && res.BoundaryEdges == 0 && res.NonManifoldEdges == 0
	if res.Watertight {
		res.Message = MessageWatertight
	} else {
		res.Message = MessageNotWatertight
	}
	return res
}
