package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore keeps images on a filesystem below the media root and serves them under baseURL
type LocalStore struct {
	fs      afero.Fs
	baseURL string
}

var _ ImageStore = (*LocalStore)(nil)

// NewLocalStore stores images in the directory root on the OS filesystem
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return NewLocalStoreFs(afero.NewBasePathFs(afero.NewOsFs(), root), baseURL), nil
}

// NewLocalStoreFs stores images in fs. Tests pass an afero.NewMemMapFs().
func NewLocalStoreFs(fs afero.Fs, baseURL string) *LocalStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStore{fs: fs, baseURL: baseURL}
}

// Save writes body to key, creating parent directories
func (s *LocalStore) Save(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	key = path.Clean("/" + key)[1:]
	if err := s.fs.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := afero.WriteReader(s.fs, key, body); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.baseURL + key, nil
}

// Delete removes key. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	key = path.Clean("/" + key)[1:]
	if err := s.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

// FileSystem exposes the stored files for static serving
func (s *LocalStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

// BaseURL returns the URL prefix files are served under
func (s *LocalStore) BaseURL() string {
	return s.baseURL
}
