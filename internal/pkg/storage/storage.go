package storage

import (
	"context"
	"io"
)

// Storage is the object-hosting backend that serves project images.
type Storage interface {
	// Put stores an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object by key. Returns nil if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// URL returns the public (hosted) URL for a key.
	URL(key string) string

	// BaseURL returns the public URL prefix all hosted objects share.
	// A reference carrying this prefix is already hosted and never
	// needs re-uploading.
	BaseURL() string
}
