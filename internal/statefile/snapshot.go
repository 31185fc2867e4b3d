package statefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Reader loads snapshot documents and tails logs from resolved state files.
type Reader struct {
	resolver *Resolver
}

// NewReader returns a Reader backed by resolver.
func NewReader(resolver *Resolver) *Reader {
	return &Reader{resolver: resolver}
}

// Resolver returns the reader's path resolver.
func (r *Reader) Resolver() *Resolver {
	return r.resolver
}

// Load reads name as one JSON document into v.
//
// A missing file, an empty file, a bare JSON null, and content that does not
// parse all return an error matching ErrNotFound. Any other I/O failure returns a *ReadError.
// v may be partially written on failure; use LoadAs for a clean result.
func (r *Reader) Load(name string, v any) error {
	path, ok := r.resolver.Resolve(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Removed between resolve and read.
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		readErrors.WithLabelValues(metricLabel(name)).Inc()
		return &ReadError{Path: path, Err: err}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%s: %w", path, ErrMalformed)
	}
	if err := json.Unmarshal(data, v); err != nil {
		malformedRecords.WithLabelValues(metricLabel(name)).Inc()
		return fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return nil
}

// LoadAs reads name as a T. It returns nil with the Load error on failure.
func LoadAs[T any](r *Reader, name string) (*T, error) {
	var v T
	if err := r.Load(name, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
