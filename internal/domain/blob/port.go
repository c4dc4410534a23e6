package blob

import "context"

// Store port (interface for object storage of user uploads)
type Store interface {
	// Put stores data under key with public read access and returns the public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes the object addressed by a URL previously returned from Put.
	Delete(ctx context.Context, rawURL string) error
	// Owns reports whether rawURL points into this store's own bucket.
	Owns(rawURL string) bool
}
