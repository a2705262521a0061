package storage

import (
	"context"
	"io"
)

// BlobStore is the capability services use to persist uploaded files. It is
// injected so tests can substitute an in-memory implementation.
type BlobStore interface {
	// Put stores the stream under a generated key inside folder and returns
	// the stable reference path recorded alongside tickets and comments.
	Put(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	// URL resolves a stored path to a retrievable URL.
	URL(path string) string
}
