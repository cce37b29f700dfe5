// Package meshio decodes and encodes the triangle mesh file formats meshlens
// accepts: STL (triangle soup, binary or ASCII) and Wavefront OBJ (indexed
// polygons). The format is chosen from the filename suffix, never sniffed
// from content.
package meshio

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/chazu/meshlens/pkg/mesh"
)

// Format is the closed set of supported mesh encodings.
type Format int

const (
	FormatUnknown Format = iota
	FormatSTL
	FormatOBJ
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatOBJ:
		return "obj"
	default:
		return "unknown"
	}
}

// Extension returns the filename suffix for f, including the dot.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// Decoder turns the bytes of one encoding into a raw vertex block.
type Decoder interface {
	Decode(data []byte) (*mesh.RawBlock, error)
}

// decoders maps each supported format to its strategy.
var decoders = map[Format]Decoder{
	FormatSTL: stlDecoder{},
	FormatOBJ: objDecoder{},
}

// SupportedExtensions lists the accepted filename suffixes.
func SupportedExtensions() []string {
	return []string{FormatSTL.Extension(), FormatOBJ.Extension()}
}

// FormatFromFilename selects a format from the filename suffix,
// case-insensitively. Any other suffix is an UnsupportedFormat error.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stl":
		return FormatSTL, nil
	case ".obj":
		return FormatOBJ, nil
	}
	return FormatUnknown, &Error{
		Kind: KindUnsupportedFormat,
		Msg:  "unsupported file extension " + quoteExt(name) + ", want one of " + strings.Join(SupportedExtensions(), ", "),
	}
}

func quoteExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return `""`
	}
	return `"` + ext + `"`
}

// Decode parses data under the given format. It fails with an
// UnsupportedFormat error for an unknown format without looking at data,
// and with a MalformedFile error when data does not match the grammar.
func Decode(data []byte, f Format) (*mesh.RawBlock, error) {
	dec, ok := decoders[f]
	if !ok {
		return nil, &Error{Kind: KindUnsupportedFormat, Format: f, Msg: "no decoder for format " + f.String()}
	}
	return dec.Decode(data)
}

// DecodeFile is Decode with the format taken from name.
func DecodeFile(name string, data []byte) (*mesh.RawBlock, Format, error) {
	f, err := FormatFromFilename(name)
	if err != nil {
		return nil, FormatUnknown, err
	}
	b, err := Decode(data, f)
	return b, f, err
}

// hasASCIIPrefix reports whether data starts with the ASCII STL keyword,
// in any case.
func hasASCIIPrefix(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) >= 5 && bytes.EqualFold(data[:5], []byte("solid"))
}
