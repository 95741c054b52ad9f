package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
)

// BlobStore writes payloads as objects in a gocloud.dev bucket.
type BlobStore struct {
	bucket *blob.Bucket
	owned  bool
}

// OpenBlobStore opens the bucket at url. The returned store owns the bucket
// and closes it on Close.
func OpenBlobStore(ctx context.Context, url string) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", url)
	}
	bs := NewBlobStore(bucket)
	bs.owned = true
	return bs, nil
}

// NewBlobStore wraps an already opened bucket. Close leaves it open.
func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// Store writes data to the object name.
func (b *BlobStore) Store(ctx context.Context, name string, data []byte) error {
	key := SanitizeFileName(name)
	if err := b.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return errors.Wrapf(err, "write object %s", key)
	}
	return nil
}

// Close closes the bucket if this store opened it.
func (b *BlobStore) Close() error {
	if !b.owned {
		return nil
	}
	return b.bucket.Close()
}
