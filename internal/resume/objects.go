package resume

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore archives original resume files in S3-compatible storage.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// ObjectConfig holds object storage connection settings.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewObjectStore connects to object storage and ensures the bucket exists.
func NewObjectStore(ctx context.Context, cfg ObjectConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// Put stores a resume file under a uuid-derived key and returns the key.
func (o *ObjectStore) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := "resumes/" + uuid.NewString() + ext

	_, err := o.client.PutObject(ctx, o.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store resume %s: %w", filename, err)
	}
	return key, nil
}

// Fetch downloads a previously stored resume file.
func (o *ObjectStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get resume %s: %w", key, err)
	}
	defer obj.Close()
	return readAll(obj)
}
