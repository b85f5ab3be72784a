package interfaces

import (
	"context"
)

// ImageStore holds raw screenshot bytes keyed per screenshot. Implementations
// are Google Cloud Storage for production and an in-memory store for
// development and tests.
type ImageStore interface {
	// Put stores image bytes under the key, overwriting any prior object
	Put(ctx context.Context, key string, mimeType string, data []byte) error

	// Get retrieves image bytes and their MIME type by key
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Delete removes the object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
