// Package storage persists submitted audio recordings as opaque blobs.
package storage

import (
	"context"
	"io"
)

// BlobStore stores and retrieves audio objects by key. Keys are
// generated server-side (date-prefixed, random suffix); callers never
// pick them.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
