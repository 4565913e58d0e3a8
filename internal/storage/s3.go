package storage

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"silentcut/internal/config"
)

// S3Publisher uploads rendered output files to an S3 bucket.
type S3Publisher struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Publisher builds a Publisher from the S3 section of the
// application config. Static credentials from the environment take
// precedence over the default chain; a custom endpoint supports
// S3-compatible stores.
func NewS3Publisher(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (*S3Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	return &S3Publisher{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Publish uploads localPath under key and returns the object URL.
func (p *S3Publisher) Publish(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	p.logger.Info().
		Str("bucket", p.bucket).
		Str("key", key).
		Msg("uploading output")

	contentType := "video/mp4"
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	url := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	p.logger.Info().Str("url", url).Msg("upload complete")
	return url, nil
}
