package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	ctx := context.Background()

	url, err := st.Save(ctx, "panel.PNG", strings.NewReader("not-really-a-png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}
	on := filepath.Join(dir, filepath.Base(url))
	if _, err := os.Stat(on); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if err := st.Remove(ctx, url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(on); !os.IsNotExist(err) {
		t.Fatal("file should be gone")
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save(context.Background(), "malware.exe", strings.NewReader("x")); err == nil {
		t.Fatal("want error for non-image extension")
	}
}

func TestRemoveIgnoresForeignURLs(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Remove(context.Background(), "https://cdn.example.com/x.png"); err != nil {
		t.Fatalf("foreign url should be a no-op, got %v", err)
	}
	if err := st.Remove(context.Background(), "/uploads/../../etc/passwd"); err != nil {
		t.Fatalf("traversal url should be a no-op, got %v", err)
	}
}
