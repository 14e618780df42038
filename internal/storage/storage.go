// Package storage issues time-limited read links for verification documents.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mediconnect/admin/internal/config"
	"github.com/sirupsen/logrus"
)

// Signer presigns GET requests for objects in a single bucket.
type Signer interface {
	SignedURL(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
}

// New builds the signer selected by cfg.Driver.
func New(ctx context.Context, cfg *config.StorageConfig, logger *logrus.Logger) (Signer, error) {
	switch cfg.Driver {
	case "", "s3":
		return NewS3Signer(ctx, cfg, logger)
	case "minio":
		return NewMinioSigner(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// objectKey strips a leading slash and, when present, a leading bucket segment
// so that keys stored as "bucket/user/file.png" resolve the same as "user/file.png".
func objectKey(bucket, key string) string {
	key = strings.TrimPrefix(key, "/")
	return strings.TrimPrefix(key, bucket+"/")
}

// splitEndpoint turns "https://host:port" into ("host:port", true).
func splitEndpoint(endpoint string) (string, bool) {
	secure := strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		return u.Host, u.Scheme == "https"
	}
	return endpoint, secure
}
