package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/static/images/")
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}

	locator, err := s.UploadImage(context.Background(), strings.NewReader("png-bytes"), "articles", "Capa.PNG")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(locator, "/static/images/articles/") || !strings.HasSuffix(locator, ".png") {
		t.Fatalf("unexpected locator %s", locator)
	}

	onDisk := filepath.Join(dir, "articles", filepath.Base(locator))
	content, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(content) != "png-bytes" {
		t.Fatalf("unexpected content %q", content)
	}

	if err := s.DeleteImage(context.Background(), locator); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err=%v", err)
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/static/images")
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}
	if err := s.DeleteImage(context.Background(), "/static/images/../../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/jornal/articles/abc.webp": "jornal/articles/abc",
		"https://res.cloudinary.com/demo/image/upload/jornal/video.mp4":               "jornal/video",
		"https://res.cloudinary.com/demo/image/upload/valid/x.png":                    "valid/x",
		"https://example.com/no-upload-segment.png":                                   "",
	}
	for in, want := range cases {
		if got := publicIDFromURL(in); got != want {
			t.Errorf("publicIDFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
