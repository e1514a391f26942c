package objectstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	dErrors "applyform/pkg/domain-errors"
)

const fileScheme = "file://"

// FilesystemStore keeps rendered documents on local disk, one directory per
// submission. URLs use the file:// scheme so the stored reference is
// self-describing.
type FilesystemStore struct {
	baseDir string
	logger  *slog.Logger
}

func NewFilesystemStore(baseDir string, logger *slog.Logger) *FilesystemStore {
	return &FilesystemStore{baseDir: baseDir, logger: logger}
}

func (s *FilesystemStore) Upload(ctx context.Context, document []byte, fileName, submissionID string) (string, error) {
	dir := filepath.Join(s.baseDir, submissionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeStorage, "create document directory")
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, document, 0o644); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeStorage, "write document")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeStorage, "resolve document path")
	}
	return fileScheme + abs, nil
}

// Delete removes a previously uploaded document. Best-effort: a miss or an
// unexpected scheme is logged and reported as false, never an error.
func (s *FilesystemStore) Delete(ctx context.Context, storageURL string) bool {
	path, ok := strings.CutPrefix(storageURL, fileScheme)
	if !ok {
		s.logger.WarnContext(ctx, "unexpected storage URL scheme, not deleting", "url", storageURL)
		return false
	}

	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "document delete failed", "path", path, "error", err)
		}
		return false
	}
	return true
}

var _ Store = (*FilesystemStore)(nil)
