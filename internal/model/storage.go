package model

import (
	"context"
	"io"
)

// Storage keeps uploaded files under flat keys. Download and Delete return
// ErrNotFound for unknown keys.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
