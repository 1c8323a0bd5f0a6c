package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/michaelcadilhac/oink/pkg/errors"
)

// Local serves game files from a base directory.
type Local struct {
	basePath string
}

// NewLocal creates a Local storage rooted at basePath.
func NewLocal(basePath string) (*Local, error) {
	if basePath == "" {
		basePath = "."
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.Wrap(errors.CodeConfigError, "failed to create storage directory", err)
	}
	return &Local{basePath: basePath}, nil
}

// Download opens the file stored at the key.
func (s *Local) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.CodeNotFound, "file not found: %s", key)
		}
		return nil, errors.Wrap(errors.CodeDownloadError, "failed to open file", err)
	}
	return file, nil
}

// Upload writes data under the key, creating parent directories.
func (s *Local) Upload(ctx context.Context, key string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errors.Wrap(errors.CodeUploadError, "failed to create directory", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return errors.Wrap(errors.CodeUploadError, "failed to create file", err)
	}
	defer file.Close()
	if _, err := io.Copy(file, reader); err != nil {
		return errors.Wrap(errors.CodeUploadError, "failed to write file", err)
	}
	return nil
}

// Exists checks whether the key maps to an existing file.
func (s *Local) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(errors.CodeDownloadError, "failed to stat file", err)
	}
	return true, nil
}

// GetURL returns the filesystem path for the key.
func (s *Local) GetURL(key string) string {
	return s.fullPath(key)
}

func (s *Local) fullPath(key string) string {
	return filepath.Join(s.basePath, key)
}
