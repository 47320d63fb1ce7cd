// Package storage resolves public URLs for files kept on a disk.
//
// Two drivers are available:
//   - "local": local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	disk, err := storage.Open(config.StorageDefault())
//	if disk.Exists(ctx, "products/desk-lamp.png") {
//	    url := disk.URL("products/desk-lamp.png")
//	}
package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/catalog/config"
)

// Disk is the filesystem driver interface. Every driver must implement this.
type Disk interface {
	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// URL returns the public URL for path.
	URL(path string) string
}

// Open boots the named disk from config.
func Open(name string) (Disk, error) {
	switch name {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL()), nil
	case "s3":
		return newS3Disk(context.Background())
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}
