package meshio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/chazu/meshlens/pkg/mesh"
)

// facetNormal returns the unit normal of a counter-clockwise triangle, or
// the zero vector for a degenerate one.
func facetNormal(a, b, c mesh.Point) mesh.Point {
	ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
	n := mesh.Point{X: uy*vz - uz*vy, Y: uz*vx - ux*vz, Z: ux*vy - uy*vx}
	l := math32.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if l == 0 {
		return mesh.Point{}
	}
	return mesh.Point{X: n.X / l, Y: n.Y / l, Z: n.Z / l}
}

func putPoint(buf []byte, p mesh.Point) {
	le.PutUint32(buf[0:], math.Float32bits(p.X))
	le.PutUint32(buf[4:], math.Float32bits(p.Y))
	le.PutUint32(buf[8:], math.Float32bits(p.Z))
}

// WriteBinarySTL writes m as binary STL with the given header text
// (truncated to 80 bytes).
func WriteBinarySTL(w io.Writer, m *mesh.Mesh, header string) error {
	bw := bufio.NewWriter(w)

	var head [stlHeaderSize + stlCountSize]byte
	copy(head[:stlHeaderSize], header)
	le.PutUint32(head[stlHeaderSize:], uint32(len(m.Faces)))
	if _, err := bw.Write(head[:]); err != nil {
		return fmt.Errorf("write stl header: %w", err)
	}

	var rec [stlRecordSize]byte
	for i, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		putPoint(rec[0:], facetNormal(a, b, c))
		putPoint(rec[12:], a)
		putPoint(rec[24:], b)
		putPoint(rec[36:], c)
		// attribute byte count stays zero
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("write stl facet %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteASCIISTL writes m as ASCII STL. Coordinates use the shortest
// representation that round-trips through float32.
func WriteASCIISTL(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := facetNormal(a, b, c)
		fmt.Fprintf(bw, "  facet normal %s\n    outer loop\n", fmtPoint(n))
		for _, p := range [3]mesh.Point{a, b, c} {
			fmt.Fprintf(bw, "      vertex %s\n", fmtPoint(p))
		}
		fmt.Fprint(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// WriteOBJ writes m as a Wavefront OBJ with 1-based triangle faces.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Vertices {
		fmt.Fprintf(bw, "v %s\n", fmtPoint(p))
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

func fmtPoint(p mesh.Point) string {
	return fmtFloat(p.X) + " " + fmtFloat(p.Y) + " " + fmtFloat(p.Z)
}

func fmtFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
