package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	intconfig "github.com/inkpress/inkpress/internal/config"
)

// S3 stores blobs in an S3-compatible object store. Objects are keyed as
// <category.Dir>/<generated-name>; the public path shape matches the
// filesystem backend so callers never care which backend is active.
type S3 struct {
	client       *s3.Client
	bucket       string
	publicPrefix string
	logger       zerolog.Logger
}

// NewS3 creates an S3 backend from configuration and verifies the bucket
// is reachable before returning.
func NewS3(ctx context.Context, cfg intconfig.S3UploadsConfig, publicPrefix string, logger zerolog.Logger) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	backend := &S3{
		client:       client,
		bucket:       cfg.Bucket,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		logger:       logger.With().Str("storage", "s3").Str("bucket", cfg.Bucket).Logger(),
	}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(backend.bucket)}); err != nil {
		return nil, fmt.Errorf("verifying bucket %q: %w", cfg.Bucket, err)
	}

	return backend, nil
}

// Save uploads the content to a new object within the category prefix.
func (b *S3) Save(ctx context.Context, category Category, originalFilename string, reader io.Reader) (string, error) {
	key := category.Dir + "/" + newObjectName(category.Prefix, originalFilename)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("uploading blob: %w", err)
	}

	publicPath := b.publicPrefix + "/" + key
	b.logger.Debug().Str("path", publicPath).Msg("Blob stored")
	return publicPath, nil
}

// Remove deletes the object addressed by a public path.
func (b *S3) Remove(ctx context.Context, publicPath string) error {
	key, ok := strings.CutPrefix(publicPath, b.publicPrefix+"/")
	if !ok {
		return fmt.Errorf("path %q is outside the public prefix", publicPath)
	}

	// S3 treats a missing key as a successful delete, so probe first to
	// give callers the same not-found signal as the filesystem backend.
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(b.bucket), Key: aws.String(key)})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("checking blob: %w", err)
	}

	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(b.bucket), Key: aws.String(key)}); err != nil {
		return fmt.Errorf("removing blob: %w", err)
	}

	b.logger.Debug().Str("path", publicPath).Msg("Blob removed")
	return nil
}
