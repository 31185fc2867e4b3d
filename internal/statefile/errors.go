package statefile

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a file is absent or has no usable content yet.
var ErrNotFound = errors.New("state file not found")

// ErrMalformed reports content that did not parse, typically a read that
// raced a rewrite. It matches ErrNotFound under errors.Is.
var ErrMalformed = fmt.Errorf("%w: malformed content", ErrNotFound)

// ReadError is an unexpected I/O failure (permissions, device errors). It is
// worth logging but the next read may well succeed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
