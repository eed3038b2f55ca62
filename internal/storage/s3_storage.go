package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"curbside/market/internal/config"
)

// objectCacheControl is the cache hint attached to every uploaded image.
const objectCacheControl = "max-age=3600"

// IObjectStore defines the interface for object store operations consumed by
// the listing submission flow.
type IObjectStore interface {
	// Put stores data under key. A repeated Put to the same key overwrites
	// the previous object.
	Put(ctx context.Context, key, contentType string, data []byte) error
	// PublicURL resolves the publicly reachable URL of an object. It returns
	// an error when no URL can be resolved from the configuration.
	PublicURL(key string) (string, error)
}

// s3Store implements IObjectStore over AWS S3.
type s3Store struct {
	cfg    *config.Config
	client *s3.Client
}

// NewS3Store creates a new S3-backed object store.
func NewS3Store(cfg *config.Config) (IObjectStore, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Store{
		cfg:    cfg,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Put uploads an object with the standard cache-control hint. S3 PUT
// semantics overwrite on key collision, which is what the upload flow asks
// for.
func (s *s3Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.S3Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(objectCacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.cfg.S3Bucket, err)
	}
	return nil
}

func (s *s3Store) PublicURL(key string) (string, error) {
	return PublicURL(s.cfg, key)
}

// PublicURL resolves an object's public URL from the configured base URL, or
// derives a virtual-hosted-style S3 URL from bucket and region when no base
// is set.
func PublicURL(cfg *config.Config, key string) (string, error) {
	if cfg.ImageBaseURL != "" {
		return strings.TrimSuffix(cfg.ImageBaseURL, "/") + "/" + key, nil
	}
	if cfg.S3Bucket == "" || cfg.AwsRegion == "" {
		return "", fmt.Errorf("cannot resolve public URL for %s: bucket or region not configured", key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.S3Bucket, cfg.AwsRegion, key), nil
}

// ObjectKey generates a fresh object key for an uploaded image, derived from
// the current time plus the original file extension.
func ObjectKey(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("listings/%d%s", time.Now().UnixMilli(), ext)
}
