package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mediconnect/admin/internal/config"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinioSigner struct {
	client *mclient.Client
	bucket string
	ttl    time.Duration
}

// NewMinioSigner does not contact the server. Region is pinned so presigning
// never needs a bucket-location lookup.
func NewMinioSigner(cfg *config.StorageConfig, logger *logrus.Logger) (*MinioSigner, error) {
	endpoint, secure := splitEndpoint(cfg.Endpoint)

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: mclient.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.Bucket,
	}).Info("MinIO presigner initialized")

	return &MinioSigner{
		client: client,
		bucket: cfg.Bucket,
		ttl:    cfg.SignedURLTTL,
	}, nil
}

// Ping fails when the bucket is missing or unreachable.
func (s *MinioSigner) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}

func (s *MinioSigner) SignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey(s.bucket, key), s.ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %q: %w", key, err)
	}
	return u.String(), nil
}
