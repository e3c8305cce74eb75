package bucket

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	// PublicURL is the externally reachable base; defaults to the endpoint.
	PublicURL string
}

type MinioBucket struct {
	cfg    MinioConfig
	client *minio.Client
}

func NewMinio(cfg MinioConfig) (*MinioBucket, error) {
	const op = "storage.bucket.NewMinio"

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")

	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = endpointURL(cfg.Endpoint, cfg.UseSSL)
	}

	return &MinioBucket{cfg: cfg, client: cl}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (b *MinioBucket) EnsureBucket(ctx context.Context) error {
	const op = "storage.bucket.MinioBucket.EnsureBucket"

	exists, err := b.client.BucketExists(ctx, b.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil
	}

	if err := b.client.MakeBucket(ctx, b.cfg.Bucket, minio.MakeBucketOptions{Region: b.cfg.Region}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *MinioBucket) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	const op = "storage.bucket.MinioBucket.Upload"

	_, err := b.client.PutObject(ctx, b.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *MinioBucket) Delete(ctx context.Context, key string) error {
	const op = "storage.bucket.MinioBucket.Delete"

	if err := b.client.RemoveObject(ctx, b.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *MinioBucket) PublicURL(key string) string {
	return publicURL(b.cfg.PublicURL, b.cfg.Bucket, key)
}
