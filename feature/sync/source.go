package sync

import (
	"context"
	"fmt"
	"os"

	"menu-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source produces the parsed menu tree that reconciliation converges to.
type Source interface {
	Load(ctx context.Context) ([]SourceMenu, error)
}

// NewSource builds the configured source.
func NewSource(cfg Config, client storage.Client, bucket string) (Source, error) {
	switch cfg.Source {
	case SourceFile:
		return &FileSource{Path: cfg.File}, nil
	case SourceStorage:
		if client == nil {
			return nil, fmt.Errorf("storage source requires a storage client")
		}
		return &StorageSource{Client: client, Bucket: bucket, Object: cfg.Object}, nil
	default:
		return nil, fmt.Errorf("unknown sync source %q", cfg.Source)
	}
}

// FileSource reads the workbook from the local filesystem.
type FileSource struct {
	Path string
}

// Load parses the workbook at Path.
func (s *FileSource) Load(ctx context.Context) ([]SourceMenu, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// StorageSource reads the workbook from an object storage bucket.
type StorageSource struct {
	Client storage.Client
	Bucket string
	Object string
}

// Load fetches and parses the workbook object.
func (s *StorageSource) Load(ctx context.Context) ([]SourceMenu, error) {
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", s.Bucket)
	}

	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get source object: %w", err)
	}
	defer obj.Close()
	return Parse(obj)
}
