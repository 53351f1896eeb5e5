package core

import (
	"context"
	"io"
)

// FileStorage stores uploaded objects and returns their public URL.
type FileStorage interface {
	Save(ctx context.Context, bucket, filename, contentType string, r io.Reader) (string, error)
	// Open reads back the object of publicURL.
	Open(ctx context.Context, publicURL string) (io.ReadCloser, error)
	Delete(ctx context.Context, publicURL string) error
}
