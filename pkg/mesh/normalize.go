package mesh

import "math"

// pointKey is the bit pattern of a Point. Two points merge only when all
// three components are bit-identical, so -0 and +0 stay distinct and no
// epsilon welding happens.
type pointKey [3]uint32

func keyOf(p Point) pointKey {
	return pointKey{math.Float32bits(p.X), math.Float32bits(p.Y), math.Float32bits(p.Z)}
}

// Normalize deduplicates the raw vertices and rewrites every face to index
// the deduplicated pool. Unique vertices keep the order in which faces first
// reference them; raw vertices no surviving face refers to are not carried
// over. Triangles that collapse to fewer than three distinct vertices are
// dropped and counted in DroppedFaces.
//
// Face indices in b must be in range; the decoders guarantee this.
func Normalize(b *RawBlock) *Mesh {
	m := &Mesh{
		Vertices: []Point{},
		Faces:    []Face{},
	}
	if b.FacetCount() == 0 {
		return m
	}

	index := make(map[pointKey]uint32, len(b.Vertices))
	lookup := func(k pointKey, p Point) uint32 {
		ci, ok := index[k]
		if !ok {
			ci = uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, p)
			index[k] = ci
		}
		return ci
	}

	m.Faces = make([]Face, 0, len(b.Faces))
	for _, f := range b.Faces {
		p0, p1, p2 := b.Vertices[f[0]], b.Vertices[f[1]], b.Vertices[f[2]]
		k0, k1, k2 := keyOf(p0), keyOf(p1), keyOf(p2)
		if k0 == k1 || k1 == k2 || k0 == k2 {
			m.DroppedFaces++
			continue
		}
		m.Faces = append(m.Faces, Face{lookup(k0, p0), lookup(k1, p1), lookup(k2, p2)})
	}

	return m
}
