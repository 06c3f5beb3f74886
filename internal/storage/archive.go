// Package storage keeps copies of generated exports in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yukikurage/farm-management-api/internal/config"
)

// Archive stores rendered documents.
type Archive interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
}

// ObjectKey builds exports/<company>/<resource>-<uuid>.<ext>.
func ObjectKey(companyID uint64, resource, ext string) string {
	return fmt.Sprintf("exports/%d/%s-%s.%s", companyID, resource, uuid.NewString(), ext)
}

type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to the configured endpoint. The bucket is created
// on first use by EnsureBucket.
func NewMinioArchive(cfg config.ArchiveConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	found, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !found {
		return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (a *MinioArchive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
