package bucket

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

type S3Bucket struct {
	cfg    S3Config
	client *s3.Client
}

func NewS3(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	const op = "storage.bucket.NewS3"

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	if cfg.PublicURL == "" {
		if cfg.Endpoint != "" {
			cfg.PublicURL = endpointURL(cfg.Endpoint, cfg.UseSSL)
		} else {
			cfg.PublicURL = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
	}

	return &S3Bucket{cfg: cfg, client: client}, nil
}

func (b *S3Bucket) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	const op = "storage.bucket.S3Bucket.Upload"

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.cfg.Bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *S3Bucket) Delete(ctx context.Context, key string) error {
	const op = "storage.bucket.S3Bucket.Delete"

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *S3Bucket) PublicURL(key string) string {
	return publicURL(b.cfg.PublicURL, b.cfg.Bucket, key)
}
