// Package cloudwriter buffers objects in memory and uploads them to object
// storage when closed.
package cloudwriter

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodstore/internal/models"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// NewFactory returns the factory for cfg.Provider, or nil for local storage.
func NewFactory(ctx context.Context, cfg models.CloudStorageConfig) (CloudWriterFactory, error) {
	switch cfg.Provider {
	case "", "local":
		return nil, nil
	case "s3":
		if cfg.BucketName == "" {
			return nil, fmt.Errorf("cloud_storage.bucket_name is required for s3")
		}
		f, err := NewS3WriterFactory(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.Provider)
	}
}
