// Package file provides a local-filesystem data source for sampling.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local reads from a path on the local filesystem.
type Local struct {
	path string
}

// NewLocal returns a source for the given path. The path is not validated
// until Open.
func NewLocal(path string) *Local {
	return &Local{path: path}
}

// Open opens the file for reading. The caller owns the returned reader and
// must close it.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
