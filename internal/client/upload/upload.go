// Package upload sends images to a third-party host before the record that
// references them is submitted to the backend.
package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/client/config"
)

var ErrNotConfigured = errors.New("image upload is not configured")

// Uploader stores one local image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// UploadAll uploads paths one after another, in order, and stops at the
// first failure.
func UploadAll(ctx context.Context, u Uploader, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		url, err := u.Upload(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", p, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

type disabled struct{}

func (disabled) Upload(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// New picks the uploader named by cfg.ImageStore. A missing Cloudinary cloud
// name or S3 bucket yields an uploader that always fails with
// ErrNotConfigured, so commands without images keep working.
func New(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		if cfg.S3.Bucket == "" {
			return disabled{}, nil
		}
		return NewS3Uploader(ctx, cfg.S3)
	case config.ImageStoreCloudinary, "":
		if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.UploadPreset == "" {
			return disabled{}, nil
		}
		return NewCloudinaryUploader(cfg.Cloudinary, cfg.RequestTimeout), nil
	}
	return nil, fmt.Errorf("unknown image store %q", cfg.ImageStore)
}
