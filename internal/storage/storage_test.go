package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskUploadAndRemove(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewDisk(dir, "http://127.0.0.1:8080/")
	if err != nil {
		t.Fatalf("NewDisk returned error: %v", err)
	}

	objectPath := ObjectPath("gallery", 7, "sunset.JPG")
	if !strings.HasPrefix(objectPath, "gallery/7/") {
		t.Errorf("expected path namespaced by prefix and user, got %s", objectPath)
	}
	if !strings.HasSuffix(objectPath, ".jpg") {
		t.Errorf("expected lowercased extension, got %s", objectPath)
	}

	ctx := context.Background()
	if err := disk.Upload(ctx, objectPath, strings.NewReader("fake image bytes")); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(objectPath)))
	if err != nil {
		t.Fatalf("failed to read stored object: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored object content mismatch: %q", data)
	}

	url := disk.PublicURL(objectPath)
	if url != "http://127.0.0.1:8080/uploads/"+objectPath {
		t.Errorf("unexpected public URL %s", url)
	}

	if err := disk.Remove(ctx, objectPath); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(objectPath))); !os.IsNotExist(err) {
		t.Error("expected object to be gone after Remove")
	}
}

func TestObjectPathUnique(t *testing.T) {
	a := ObjectPath("gallery", 1, "a.png")
	b := ObjectPath("gallery", 1, "a.png")
	if a == b {
		t.Error("expected distinct paths for repeated uploads of the same file name")
	}
}
