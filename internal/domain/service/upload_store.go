package service

import (
	"context"
	"io"
)

// UploadStore defines the interface for storing uploaded images under
// opaque generated names.
type UploadStore interface {
	// Save streams one upload into the store and returns the public path
	// ("/uploads/<name>") the stored file is served under.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Wipe removes every stored upload. Only the store reset uses it.
	Wipe(ctx context.Context) error
}
