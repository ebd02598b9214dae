// Package blob stores files such as rendered receipts and product images.
//
// Two drivers are available:
//   - "local" writes under a root directory and serves them from a URL prefix
//   - "s3"    uses any S3-compatible object store (AWS S3, MinIO, R2)
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("blob not found")

// Store is the driver interface.
type Store interface {
	Put(ctx context.Context, path string, content []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	// URL is the public address of path.
	URL(path string) string
}

type Options struct {
	Driver    string
	LocalRoot string
	BaseURL   string
	S3        S3Options
}

// New opens the store selected by opts.Driver.
func New(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", "local":
		return NewLocal(opts.LocalRoot, opts.BaseURL)
	case "s3":
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("blob: unsupported driver %q", opts.Driver)
	}
}

func cleanPath(path string) string {
	return strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
}
