// Package mesh defines the canonical indexed triangle mesh used throughout
// meshlens, along with normalization from raw decoded vertex data, derived
// statistics, and the render arrays handed to a 3D viewer.
package mesh

// Point is a 3D position. Components are float32 because both supported
// file formats store single-precision coordinates.
type Point struct {
	X, Y, Z float32
}

// Face is a triangle given as three indices into a vertex slice.
type Face [3]uint32

// RawBlock is decoded vertex data before deduplication. Faces index into
// Vertices; for triangle-soup input they are sequential {0,1,2}, {3,4,5}, ...
type RawBlock struct {
	Vertices []Point
	Faces    []Face
}

// FacetCount returns the number of raw triangles.
func (b *RawBlock) FacetCount() int {
	if b == nil {
		return 0
	}
	return len(b.Faces)
}

// Mesh is the canonical indexed mesh: unique vertices in first-seen order
// and triangles referencing them. A Mesh is built once by Normalize and
// must not be modified afterwards.
type Mesh struct {
	Vertices []Point
	Faces    []Face

	// DroppedFaces counts degenerate triangles (two or more identical
	// indices after deduplication) removed during normalization.
	DroppedFaces int
}

// VertexCount returns the number of unique vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}
