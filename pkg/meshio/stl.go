package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/meshlens/pkg/mesh"
)

const (
	stlHeaderSize = 80
	stlCountSize  = 4
	stlRecordSize = 50 // normal + 3 vertices (12 float32) + attribute uint16
)

// short name, for convenience
var le = binary.LittleEndian

type stlDecoder struct{}

// Decode reads binary STL when the byte length matches the facet count in
// the header exactly, and ASCII STL when the content starts with "solid".
// Anything else is malformed.
func (stlDecoder) Decode(data []byte) (*mesh.RawBlock, error) {
	if len(data) >= stlHeaderSize+stlCountSize {
		count := uint64(le.Uint32(data[stlHeaderSize:]))
		if uint64(len(data)) == stlHeaderSize+stlCountSize+count*stlRecordSize {
			return decodeBinarySTL(data, int(count)), nil
		}
	}
	if hasASCIIPrefix(data) {
		return decodeASCIISTL(data)
	}
	if len(data) < stlHeaderSize+stlCountSize {
		return nil, malformed(FormatSTL, 0, "truncated header: %d bytes, need %d", len(data), stlHeaderSize+stlCountSize)
	}
	count := uint64(le.Uint32(data[stlHeaderSize:]))
	return nil, malformed(FormatSTL, 0, "facet count %d needs %d bytes, have %d",
		count, stlHeaderSize+stlCountSize+count*stlRecordSize, len(data))
}

// decodeBinarySTL reads count 50-byte facet records directly out of data.
// The caller has checked the length.
func decodeBinarySTL(data []byte, count int) *mesh.RawBlock {
	b := &mesh.RawBlock{
		Vertices: make([]mesh.Point, 0, count*3),
		Faces:    make([]mesh.Face, 0, count),
	}
	off := stlHeaderSize + stlCountSize
	for i := 0; i < count; i++ {
		rec := data[off : off+stlRecordSize]
		// skip the 12-byte normal; vertices follow
		for v := 0; v < 3; v++ {
			b.Vertices = append(b.Vertices, readPoint(rec[12+v*12:]))
		}
		n := uint32(i * 3)
		b.Faces = append(b.Faces, mesh.Face{n, n + 1, n + 2})
		off += stlRecordSize
	}
	return b
}

func readPoint(buf []byte) mesh.Point {
	return mesh.Point{
		X: math.Float32frombits(le.Uint32(buf[0:])),
		Y: math.Float32frombits(le.Uint32(buf[4:])),
		Z: math.Float32frombits(le.Uint32(buf[8:])),
	}
}

// asciiState tracks where the ASCII STL parser is inside a solid.
type asciiState int

const (
	stateStart    asciiState = iota // before "solid"
	stateSolid                      // between facets
	stateFacet                      // after "facet normal", expecting "outer loop"
	stateLoop                       // reading "vertex" lines
	stateEndLoop                    // after "endloop", expecting "endfacet"
	stateEndSolid                   // after "endsolid"
)

// decodeASCIISTL parses the grammar
//
//	solid [name]
//	  facet normal nx ny nz
//	    outer loop
//	      vertex x y z   (exactly 3)
//	    endloop
//	  endfacet
//	endsolid [name]
//
// Several solids may follow each other.
func decodeASCIISTL(data []byte) (*mesh.RawBlock, error) {
	b := &mesh.RawBlock{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	state := stateStart
	var loop []mesh.Point
	line := 0

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		// Keywords are case-insensitive; some exporters write upper case.
		kw := strings.ToLower(fields[0])

		switch state {
		case stateStart, stateEndSolid:
			if kw != "solid" {
				return nil, malformed(FormatSTL, line, "expected \"solid\", got %q", fields[0])
			}
			state = stateSolid

		case stateSolid:
			switch kw {
			case "facet":
				if len(fields) != 5 || !strings.EqualFold(fields[1], "normal") {
					return nil, malformed(FormatSTL, line, "expected \"facet normal nx ny nz\"")
				}
				if _, err := parsePoint(fields[2:]); err != nil {
					return nil, malformedField(FormatSTL, line, err)
				}
				state = stateFacet
			case "endsolid":
				state = stateEndSolid
			default:
				return nil, malformed(FormatSTL, line, "expected \"facet\" or \"endsolid\", got %q", fields[0])
			}

		case stateFacet:
			if len(fields) != 2 || kw != "outer" || !strings.EqualFold(fields[1], "loop") {
				return nil, malformed(FormatSTL, line, "expected \"outer loop\"")
			}
			loop = loop[:0]
			state = stateLoop

		case stateLoop:
			switch kw {
			case "vertex":
				if len(fields) != 4 {
					return nil, malformed(FormatSTL, line, "vertex needs 3 coordinates, got %d", len(fields)-1)
				}
				if len(loop) == 3 {
					return nil, malformed(FormatSTL, line, "facet has more than 3 vertices")
				}
				p, err := parsePoint(fields[1:])
				if err != nil {
					return nil, malformedField(FormatSTL, line, err)
				}
				loop = append(loop, p)
			case "endloop":
				if len(loop) != 3 {
					return nil, malformed(FormatSTL, line, "facet has %d vertices, want 3", len(loop))
				}
				n := uint32(len(b.Vertices))
				b.Vertices = append(b.Vertices, loop...)
				b.Faces = append(b.Faces, mesh.Face{n, n + 1, n + 2})
				state = stateEndLoop
			default:
				return nil, malformed(FormatSTL, line, "expected \"vertex\" or \"endloop\", got %q", fields[0])
			}

		case stateEndLoop:
			if kw != "endfacet" {
				return nil, malformed(FormatSTL, line, "expected \"endfacet\", got %q", fields[0])
			}
			state = stateSolid
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Kind: KindMalformedFile, Format: FormatSTL, Line: line, Err: err}
	}

	switch state {
	case stateEndSolid:
		return b, nil
	case stateStart:
		return nil, malformed(FormatSTL, 0, "no solid found")
	case stateSolid:
		return nil, malformed(FormatSTL, line, "missing \"endsolid\"")
	default:
		return nil, malformed(FormatSTL, line, "truncated facet")
	}
}

func parsePoint(fields []string) (mesh.Point, error) {
	var xyz [3]float32
	for i, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return mesh.Point{}, err
		}
		xyz[i] = float32(v)
	}
	return mesh.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func malformedField(f Format, line int, err error) *Error {
	return &Error{Kind: KindMalformedFile, Format: f, Line: line, Msg: "bad number", Err: err}
}
