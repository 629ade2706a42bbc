// Package storage is the file storage collaborator: upload an object under a
// namespaced path, resolve its public URL, remove it again. The disk
// implementation backs the default deployment; handlers only see the
// interface.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Storage interface {
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	Remove(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
}

// ObjectPath builds a collision-free storage key namespaced by uploader and
// timestamp: "<prefix>/<userID>/<unix-ms>-<uuid><ext>".
func ObjectPath(prefix string, userID uint, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	if prefix == "" {
		return path.Join(fmt.Sprint(userID), name)
	}
	return path.Join(prefix, fmt.Sprint(userID), name)
}

type Disk struct {
	dir     string
	baseURL string
}

// NewDisk stores objects under dir and serves them at baseURL + "/uploads/".
func NewDisk(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Disk) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	dst := filepath.Join(d.dir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

func (d *Disk) Remove(ctx context.Context, objectPath string) error {
	return os.Remove(filepath.Join(d.dir, filepath.FromSlash(objectPath)))
}

func (d *Disk) PublicURL(objectPath string) string {
	return d.baseURL + "/uploads/" + objectPath
}

// Dir is the root the HTTP layer serves as /uploads/.
func (d *Disk) Dir() string {
	return d.dir
}
