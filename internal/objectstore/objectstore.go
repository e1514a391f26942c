// Package objectstore persists rendered documents and returns a stable
// location reference for them.
package objectstore

import "context"

// Store uploads and removes rendered documents. Upload returns the storage
// URL recorded on the submission; Delete reports whether anything was
// removed and is best-effort.
type Store interface {
	Upload(ctx context.Context, document []byte, fileName, submissionID string) (string, error)
	Delete(ctx context.Context, storageURL string) bool
}
