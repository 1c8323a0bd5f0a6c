// Package storage abstracts where game files live: the local filesystem or
// a Tencent Cloud COS bucket. The solve command reads inputs through it and
// optionally uploads solutions next to them.
package storage

import (
	"context"
	"io"

	"github.com/michaelcadilhac/oink/pkg/config"
	"github.com/michaelcadilhac/oink/pkg/errors"
)

// Storage defines the operations needed for game files.
type Storage interface {
	// Download opens the game file stored at the key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Upload stores data (a solution, a dot export) under the key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Exists checks whether an object exists at the key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a direct URL or path for the key.
	GetURL(key string) string
}

// Type identifies a storage backend.
type Type string

const (
	// TypeLocal serves files from a directory.
	TypeLocal Type = "local"
	// TypeCOS serves files from a Tencent Cloud COS bucket.
	TypeCOS Type = "cos"
)

// New creates a Storage from configuration.
func New(cfg *config.StorageConfig) (Storage, error) {
	switch Type(cfg.Type) {
	case TypeLocal, "":
		return NewLocal(cfg.LocalPath)
	case TypeCOS:
		return NewCOS(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return nil, errors.Newf(errors.CodeConfigError, "unknown storage type %q", cfg.Type)
	}
}
