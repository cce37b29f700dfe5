package meshio

import (
	"errors"
	"fmt"
)

// Kind classifies a decode failure.
type Kind int

const (
	KindMalformedFile Kind = iota + 1
	KindUnsupportedFormat
)

func (k Kind) String() string {
	switch k {
	case KindMalformedFile:
		return "malformed file"
	case KindUnsupportedFormat:
		return "unsupported format"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrMalformedFile     = errors.New("malformed file")
	ErrUnsupportedFormat = errors.New("unsupported format")

	errZeroIndex = errors.New("vertex index 0 is invalid")
)

// Error is returned by every decoder. Line is 1-based and only set for
// text encodings.
type Error struct {
	Kind   Kind
	Format Format
	Line   int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	prefix := e.Kind.String()
	if e.Format != FormatUnknown {
		prefix = e.Format.String() + ": " + prefix
	}
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", prefix, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedFile:
		return e.Kind == KindMalformedFile
	case ErrUnsupportedFormat:
		return e.Kind == KindUnsupportedFormat
	}
	return false
}

func malformed(f Format, line int, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedFile, Format: f, Line: line, Msg: fmt.Sprintf(format, args...)}
}
