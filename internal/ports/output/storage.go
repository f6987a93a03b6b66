// Package output defines the secondary/driven ports of the application.
package output

import (
	"context"
)

// ObjectStorage defines the secondary port for object storage operations.
// The pipeline uses one instance bound to the source location and one bound
// to the destination location; both are constructed once per process.
type ObjectStorage interface {
	// List returns all objects in the storage location.
	List(ctx context.Context) ([]StorageObject, error)

	// Download downloads an object to the local filesystem.
	Download(ctx context.Context, key string, dest string) error

	// Upload uploads a local file under the given object key, replacing any
	// existing object.
	Upload(ctx context.Context, key string, src string) error

	// Exists checks if an object exists.
	Exists(ctx context.Context, key string) (bool, error)

	// VSIPrefix returns the GDAL virtual-filesystem prefix addressing this
	// storage location, e.g. "/vsigs/my-bucket" or a local directory path.
	VSIPrefix() string
}

// StorageObject represents a file in object storage.
type StorageObject struct {
	Key          string // Object key/path
	Size         int64  // Size in bytes
	LastModified int64  // Unix timestamp
	ETag         string // Content hash
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeAzure StorageType = "azure"
	StorageTypeGCS   StorageType = "gcs"
	StorageTypeLocal StorageType = "local"
)
