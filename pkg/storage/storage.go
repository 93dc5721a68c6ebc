package storage

import (
	"context"
	"io"
)

// FileStorage stores uploaded documents such as résumés and returns their public URL.
type FileStorage interface {
	// Upload stores r under folder and returns the secure URL.
	Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// Delete removes the file behind fileURL. Unknown files are not an error.
	Delete(ctx context.Context, fileURL string) error
}
