package driven

import "context"

// ObjectStore retrieves bulk configuration documents that are too large to
// inline in pipeline configuration.
type ObjectStore interface {
	// GetObject returns the document stored under bucket/key.
	// A missing object returns domain.ErrNotFound.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}
