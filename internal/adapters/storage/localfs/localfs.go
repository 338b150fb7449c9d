package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage keeps uploaded images on the local disk under a base directory and
// serves them under /uploads/. The directory is created on first use.
type Storage struct {
	baseDir string
	baseURL string
}

func New(baseDir string) *Storage {
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &Storage{baseDir: baseDir, baseURL: "/uploads/"}
}

// Dir is the on-disk directory, handed to the HTTP file server.
func (s *Storage) Dir() string { return s.baseDir }

func (s *Storage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	fname := uuid.NewString() + ext
	dst := filepath.Join(s.baseDir, fname)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", err
	}
	return s.baseURL + fname, nil
}

// Remove deletes the file behind a previously returned URL. URLs outside the
// upload prefix are ignored.
func (s *Storage) Remove(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, s.baseURL))
	if name == "" || name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
