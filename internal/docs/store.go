package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("docs: document not found")

// BlobStore is the durable document store collaborator: receipts and rendered
// invoice PDFs addressable by relative path.
type BlobStore interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
	Save(ctx context.Context, path string, data []byte) error
}

// FilesystemStore is a BlobStore rooted at a local directory.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore constructs a store rooted at dir.
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if dir == "" {
		return nil, errors.New("document store: empty root")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("document store: create root: %w", err)
	}
	return &FilesystemStore{root: dir}, nil
}

// Fetch reads a document. A missing file maps to ErrNotFound.
func (s *FilesystemStore) Fetch(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("document store: read %s: %w", path, err)
	}
	return data, nil
}

// Save writes a document, creating parent directories as needed.
func (s *FilesystemStore) Save(_ context.Context, path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("document store: create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("document store: write %s: %w", path, err)
	}
	return nil
}

func (s *FilesystemStore) resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("document store: empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("document store: invalid path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}
