package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type localStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage stores files under basePath and returns locators prefixed
// with baseURL (e.g. "/static/images/articles/<uuid>.png").
func NewLocalStorage(basePath, baseURL string) (ImageStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &localStorage{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *localStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	dir := filepath.Join(s.basePath, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.New().String() + ext
	dst := filepath.Join(dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	if folder == "" {
		return s.baseURL + "/" + name, nil
	}
	return s.baseURL + "/" + filepath.ToSlash(folder) + "/" + name, nil
}

func (s *localStorage) DeleteImage(ctx context.Context, fileURL string) error {
	rel := strings.TrimPrefix(fileURL, s.baseURL)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("locator %q is not managed by this storage", fileURL)
	}

	if err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(rel))); err != nil {
		return fmt.Errorf("failed to delete %s: %w", fileURL, err)
	}
	return nil
}
