package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shipline/shipline/internal/shared"
)

// DiskStore writes blobs to a flat directory, one file per token.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes the stream under a fresh uuid token.
func (s *DiskStore) Save(_ context.Context, ext string, r io.Reader) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	token := uuid.NewString()
	if ext != "" {
		token += "." + ext
	}

	f, err := os.Create(filepath.Join(s.root, token))
	if err != nil {
		return "", fmt.Errorf("storage: create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("storage: write: %w", err)
	}
	return token, nil
}

// Open returns the blob for token. Tokens are opaque uuid names, so path
// traversal is rejected outright.
func (s *DiskStore) Open(_ context.Context, token string) (io.ReadCloser, string, error) {
	if token == "" || token != filepath.Base(token) {
		return nil, "", shared.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.root, token))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", shared.ErrNotFound
		}
		return nil, "", fmt.Errorf("storage: open: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(token))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return f, mimeType, nil
}
