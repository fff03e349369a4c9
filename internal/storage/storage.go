package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned by New when no bucket is set.
var ErrNotConfigured = errors.New("storage bucket is not configured")

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service ships exported report files to remote object storage.
type Service interface {
	UploadDirectory(ctx context.Context, localPath string, opts UploadOptions) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// Config selects the bucket and the AWS credentials used to reach it.
type Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Profile  string
}

// New builds an S3 backed Service. A custom endpoint switches to path-style
// addressing so MinIO and similar servers work.
func New(ctx context.Context, cfg Config, logger *logrus.Logger) (*S3Service, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	if logger != nil {
		logger.Infof("using s3 bucket %s (region %s)", cfg.Bucket, cfg.Region)
	}
	return NewS3Service(client), nil
}
