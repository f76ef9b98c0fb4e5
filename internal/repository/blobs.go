package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore holds uploaded media files on disk. Stored names are random so
// two uploads with the same original filename never collide.
type BlobStore struct {
	dir string
}

func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Save writes the bytes under a generated name, keeping the original
// extension, and returns the stored name.
func (s *BlobStore) Save(data []byte, origName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(origName))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return name, nil
}

// Open returns the stored bytes for a previously saved name. The name is
// reduced to its base component so a crafted path cannot escape the dir.
func (s *BlobStore) Open(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}
