// Package s3 stores converted documents in an S3 bucket.
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"doclingo/internal/config"
	"doclingo/internal/port"
)

// Store uploads documents with the multipart-aware S3 upload manager.
type Store struct {
	uploader *manager.Uploader
}

var _ port.ObjectStorage = (*Store)(nil)

// New resolves AWS settings from cfg, falling back to the default credential
// chain when no static key pair is configured. A custom endpoint switches the
// client to path-style addressing for MinIO and LocalStack.
func New(ctx context.Context, cfg config.S3Config) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Store{uploader: manager.NewUploader(client)}, nil
}

// Upload writes input.Body to input.Bucket/input.Key. The returned ETag has
// its surrounding quotes removed.
func (s *Store) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket: aws.String(input.Bucket),
		Key:    aws.String(input.Key),
		Body:   input.Body,
	}
	if input.ContentType != "" {
		put.ContentType = aws.String(input.ContentType)
	}

	res, err := s.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("uploading s3://%s/%s: %w", input.Bucket, input.Key, err)
	}
	return &port.UploadOutput{
		Location: res.Location,
		ETag:     strings.Trim(aws.ToString(res.ETag), `"`),
	}, nil
}
