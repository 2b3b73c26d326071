// internal/domain/asset/asset.go
package asset

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("asset: not found")
	ErrInvalidName = errors.New("asset: invalid name")
)

// Asset is an opened page asset (banner image, ...). Callers close Body.
type Asset struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store opens page assets by file name.
type Store interface {
	Open(ctx context.Context, name string) (Asset, error)
}

// CleanName returns name when it is a single safe path segment.
func CleanName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" || n == "." || n == ".." || strings.ContainsAny(n, `/\`) || path.Clean(n) != n {
		return "", ErrInvalidName
	}
	if strings.HasPrefix(n, ".") {
		return "", ErrInvalidName
	}
	return n, nil
}
