package storage

import "context"

// ObjectStorage abstracts where uploaded source documents live. Paths are
// forward-slash relative keys, URLs are what gets stamped into chunk
// metadata as the document's source URL.
type ObjectStorage interface {
	Upload(ctx context.Context, data []byte, path string) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
