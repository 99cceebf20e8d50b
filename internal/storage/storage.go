// Package storage keeps uploaded source documents outside the record store.
// Paths are forward-slash separated and relative to the store root.
package storage

import (
	"context"
	"io"
)

// Blobs stores whole documents. Implementations are safe for concurrent use.
type Blobs interface {
	// Put writes data at path, replacing any previous object.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Open returns the object at path. A missing object yields an error
	// wrapping os.ErrNotExist. The caller closes the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, path string) error
}
