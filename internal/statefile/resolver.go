// Package statefile reads the files an agent process writes about itself:
// whole-document JSON snapshots and append-only JSONL logs. Files may be
// mid-write at any moment, so every reader here treats torn or missing
// content as "no data yet" rather than failing.
package statefile

import (
	"os"
	"path/filepath"
)

// Resolver maps a logical file name to the first candidate root that holds it.
// Existence is checked on every call; the producer may create a file after
// the reader starts.
type Resolver struct {
	roots []string
}

// NewResolver returns a Resolver trying roots in the given order. Empty
// roots are ignored.
func NewResolver(roots ...string) *Resolver {
	r := &Resolver{}
	for _, root := range roots {
		if root != "" {
			r.roots = append(r.roots, root)
		}
	}
	return r
}

// Roots returns the candidate roots in priority order.
func (r *Resolver) Roots() []string {
	out := make([]string, len(r.roots))
	copy(out, r.roots)
	return out
}

// Resolve returns the path of name under the first root where it exists as
// a regular file. Names that would escape a root never resolve.
func (r *Resolver) Resolve(name string) (string, bool) {
	if !filepath.IsLocal(name) {
		return "", false
	}
	for _, root := range r.roots {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
