package storage

import (
	"context"
	"io"
)

// BlobStore is the object storage behind the upload pipeline.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
