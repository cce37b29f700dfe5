package meshio

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/chazu/meshlens/pkg/mesh"
)

type objDecoder struct{}

// objFace is a polygon as read, with indices already 0-based. Positive
// indices may point past the vertices read so far, so range checks run
// once the whole file is parsed.
type objFace struct {
	line int
	refs []int
}

// Decode reads vertex positions ("v") and polygon faces ("f") and
// fan-triangulates every polygon from its first vertex: an n-gon
// (v0..vn-1) becomes (v0,vi,vi+1) for i in 1..n-2. Texture and normal
// sub-indices, materials, groups, and unknown directives are ignored.
func (objDecoder) Decode(data []byte) (*mesh.RawBlock, error) {
	b := &mesh.RawBlock{}
	var faces []objFace

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, malformed(FormatOBJ, line, "vertex needs 3 coordinates, got %d", len(fields)-1)
			}
			p, err := parsePoint(fields[1:4])
			if err != nil {
				return nil, malformedField(FormatOBJ, line, err)
			}
			b.Vertices = append(b.Vertices, p)

		case "f":
			if len(fields) < 4 {
				return nil, malformed(FormatOBJ, line, "face needs at least 3 vertices, got %d", len(fields)-1)
			}
			face := objFace{line: line, refs: make([]int, 0, len(fields)-1)}
			for _, ref := range fields[1:] {
				idx, err := parseObjIndex(ref, len(b.Vertices))
				if err != nil {
					return nil, &Error{Kind: KindMalformedFile, Format: FormatOBJ, Line: line, Msg: "bad face reference " + strconv.Quote(ref), Err: err}
				}
				face.refs = append(face.refs, idx)
			}
			faces = append(faces, face)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Kind: KindMalformedFile, Format: FormatOBJ, Line: line, Err: err}
	}

	n := len(b.Vertices)
	for _, face := range faces {
		for _, idx := range face.refs {
			if idx < 0 || idx >= n {
				return nil, malformed(FormatOBJ, face.line, "vertex index %d out of range (%d vertices)", idx+1, n)
			}
		}
		for i := 1; i+1 < len(face.refs); i++ {
			b.Faces = append(b.Faces, mesh.Face{
				uint32(face.refs[0]),
				uint32(face.refs[i]),
				uint32(face.refs[i+1]),
			})
		}
	}

	return b, nil
}

// parseObjIndex converts a face reference "v", "v/vt", "v//vn" or
// "v/vt/vn" into a 0-based vertex index. Negative indices count back from
// the last vertex read so far; 0 is invalid.
func parseObjIndex(ref string, seen int) (int, error) {
	v, _, _ := strings.Cut(ref, "/")
	val, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	switch {
	case val > 0:
		return val - 1, nil
	case val < 0:
		return seen + val, nil
	default:
		return 0, errZeroIndex
	}
}
