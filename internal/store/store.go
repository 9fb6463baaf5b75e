package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gocloud.dev/blob"
)

// ErrSizeUnknown is returned by Size when the store does not report a size
// for the object.
var ErrSizeUnknown = errors.New("store: object size unknown")

// Store reads objects from a single bucket.
type Store struct {
	bucket *blob.Bucket
}

// Open opens the bucket identified by a gocloud URL, e.g.
// "s3://my-bucket?region=us-east-1" or "gs://my-bucket".
func Open(ctx context.Context, bucketURL string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}
	return &Store{bucket: bucket}, nil
}

// FromBucket wraps an already-open bucket. The caller keeps ownership of
// the bucket's lifetime.
func FromBucket(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Close releases the bucket connection.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Size probes the object's metadata and returns its total size in bytes.
func (s *Store) Size(ctx context.Context, key string) (int64, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get attributes for %s: %w", key, err)
	}
	if attrs.Size < 0 {
		return 0, ErrSizeUnknown
	}
	return attrs.Size, nil
}

// ReadRange reads the inclusive byte range [start, end] of the object and
// returns the body. The body may be shorter than requested if the store
// returns less data; the caller verifies the length.
func (s *Store) ReadRange(ctx context.Context, key string, start, end int64) ([]byte, error) {
	length := end - start + 1
	r, err := s.bucket.NewRangeReader(ctx, key, start, length, nil)
	if err != nil {
		return nil, fmt.Errorf("read %s bytes=%d-%d: %w", key, start, end, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s bytes=%d-%d: %w", key, start, end, err)
	}
	return body, nil
}
