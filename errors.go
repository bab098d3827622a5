package scaleseq

import (
	"errors"
	"fmt"
)

var (
	// ErrSCL is wrapped by every error returned when parsing a .scl file.
	ErrSCL = errors.New("invalid .scl data")
	// ErrKBM is wrapped by every error returned when parsing a .kbm file.
	ErrKBM = errors.New("invalid .kbm data")
)

// ParseError describes why scale or mapping data could not be parsed. Line is
// 1-based; 0 means the error is not tied to a particular line.
type ParseError struct {
	File   string
	Line   int
	Reason string

	kind error
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%v: %s:%d: %s", e.kind, file, e.Line, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", e.kind, file, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.kind }
