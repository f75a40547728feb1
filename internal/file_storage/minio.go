package filestorage

import (
	"context"
	"fmt"
	"io"

	"github.com/SeakMengs/AutoSign/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore keeps the uploaded document bytes.
type BlobStore interface {
	// Put stores the object and returns the bucket it landed in.
	Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, bucket, objectKey string) (io.ReadCloser, error)
	Remove(ctx context.Context, bucket, objectKey string) error
}

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (ms *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := ms.client.BucketExists(ctx, ms.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", ms.bucket, err)
	}
	if exists {
		return nil
	}

	if err := ms.client.MakeBucket(ctx, ms.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", ms.bucket, err)
	}
	return nil
}

func (ms *MinioStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := ms.client.PutObject(ctx, ms.bucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	return info.Bucket, nil
}

func (ms *MinioStore) Get(ctx context.Context, bucket, objectKey string) (io.ReadCloser, error) {
	if bucket == "" {
		bucket = ms.bucket
	}

	obj, err := ms.client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", objectKey, err)
	}

	// GetObject is lazy, Stat surfaces a missing object before the caller starts streaming
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to get %s: %w", objectKey, err)
	}

	return obj, nil
}

func (ms *MinioStore) Remove(ctx context.Context, bucket, objectKey string) error {
	if bucket == "" {
		bucket = ms.bucket
	}

	if err := ms.client.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectKey, err)
	}
	return nil
}
