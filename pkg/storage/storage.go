// Package storage persists uploaded media and hands back a stable locator.
package storage

import (
	"context"
	"io"
)

// ImageStorage is the Media Store used by articles and events.
type ImageStorage interface {
	// UploadImage stores the content read from r and returns its public locator.
	// folder is an optional logical sub-folder (e.g. "articles").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage removes the stored file behind a locator returned by UploadImage.
	DeleteImage(ctx context.Context, fileURL string) error
}
