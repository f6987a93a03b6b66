package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jobrunner/tessera/internal/ports/output"
)

// GCSStorage implements ObjectStorage for Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	prefix string
}

// GCSConfig holds Google Cloud Storage configuration.
type GCSConfig struct {
	Bucket          string
	Prefix          string
	CredentialsFile string
}

// NewGCSStorage creates a new GCS storage adapter. Without an explicit
// credentials file the client uses Application Default Credentials.
func NewGCSStorage(ctx context.Context, cfg GCSConfig) (*GCSStorage, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// List returns all objects in the GCS bucket.
func (s *GCSStorage) List(ctx context.Context) ([]output.StorageObject, error) {
	var objects []output.StorageObject

	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: s.prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		// Remove prefix from key
		relKey := strings.TrimPrefix(attrs.Name, s.prefix)
		relKey = strings.TrimPrefix(relKey, "/")
		if relKey == "" {
			continue
		}

		objects = append(objects, output.StorageObject{
			Key:          relKey,
			Size:         attrs.Size,
			LastModified: attrs.Updated.Unix(),
			ETag:         attrs.Etag,
		})
	}

	return objects, nil
}

// Download downloads an object from GCS to the local filesystem.
func (s *GCSStorage) Download(ctx context.Context, key string, dest string) error {
	// Create destination directory
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return err
	}

	r, err := s.client.Bucket(s.bucket).Object(s.fullKey(key)).NewReader(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	// Write to file
	f, err := os.Create(dest) //#nosec G304 -- dest is a controlled local path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(f, r)
	return err
}

// Upload uploads a local file to GCS under the given key, replacing any
// existing object.
func (s *GCSStorage) Upload(ctx context.Context, key string, src string) error {
	f, err := os.Open(src) //#nosec G304 -- src is a controlled local path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := s.client.Bucket(s.bucket).Object(s.fullKey(key)).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Exists checks if an object exists in GCS.
func (s *GCSStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(s.fullKey(key)).Attrs(ctx)
	if err == gcs.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// VSIPrefix returns the GDAL virtual-filesystem prefix for this bucket.
func (s *GCSStorage) VSIPrefix() string {
	if s.prefix == "" {
		return "/vsigs/" + s.bucket
	}
	return "/vsigs/" + s.bucket + "/" + s.prefix
}

// fullKey returns the full object name including prefix.
func (s *GCSStorage) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
