package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is a BlobStore kept in process memory, used for DB_TYPE=sqlite local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{bucket: bucket, objects: map[string][]byte{}}
}

func (ms *MemoryStore) key(bucket, objectKey string) string {
	if bucket == "" {
		bucket = ms.bucket
	}
	return bucket + "/" + objectKey
}

func (ms *MemoryStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.objects[ms.key(ms.bucket, objectKey)] = data

	return ms.bucket, nil
}

func (ms *MemoryStore) Get(ctx context.Context, bucket, objectKey string) (io.ReadCloser, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	data, ok := ms.objects[ms.key(bucket, objectKey)]
	if !ok {
		return nil, fmt.Errorf("failed to get %s: object does not exist", objectKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (ms *MemoryStore) Remove(ctx context.Context, bucket, objectKey string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.objects, ms.key(bucket, objectKey))
	return nil
}
