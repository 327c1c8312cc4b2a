// Package objectstore uploads user media to a bucket and returns its public URL.
package objectstore

import (
	"context"
	"errors"
	"io"
)

var ErrNotConfigured = errors.New("object storage not configured")

type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
