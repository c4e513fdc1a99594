// Package storage persists uploaded images and returns the URL they are served from.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"burst-backend/internal/config"
	"burst-backend/internal/database/models"
)

//go:generate mockgen -source=storage.go -destination=../mocks/storage_mocks.go -package=mocks

// ImageStore saves and removes image objects
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageKey returns the object key for an image of a content item, e.g. articles/<id>/hero.png
func ImageKey(kind models.ContentKind, id fmt.Stringer, name, ext string) string {
	return path.Join(string(kind)+"s", id.String(), name+ext)
}

// New builds the image store selected by MEDIA_BACKEND
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.MediaBackend {
	case "s3":
		return NewS3Store(ctx, S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Endpoint:        cfg.AWSS3Endpoint,
		})
	case "local", "":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	}
	return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
}
