package objectstore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/agriassist/agriassist-api/pkg/helpers"
)

type GCS struct {
	Client *storage.Client
	Bucket string
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if g == nil || g.Client == nil || g.Bucket == "" {
		return "", ErrNotConfigured
	}
	wc := g.Client.Bucket(g.Bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return helpers.PublicURL(g.Bucket, key), nil
}
