package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrDisabled = errors.New("media storage is not configured")

type S3Conf struct {
	Endpoint      string `json:",optional"`
	AccessKey     string `json:",optional"`
	SecretKey     string `json:",optional"`
	Region        string `json:",default=us-east-1"`
	Bucket        string `json:",default=venuehub-media"`
	PublicBaseURL string `json:",optional"`
}

func (c S3Conf) enabled() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

type S3Uploader struct {
	client *s3.Client
	conf   S3Conf
}

// NewS3Uploader talks to S3 or any S3 compatible endpoint (MinIO) with
// path-style addressing. Without credentials every Put fails with
// ErrDisabled.
func NewS3Uploader(ctx context.Context, c S3Conf) (*S3Uploader, error) {
	if !c.enabled() {
		return &S3Uploader{conf: c}, nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Uploader{client: client, conf: c}, nil
}

func (u *S3Uploader) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if u.client == nil {
		return "", ErrDisabled
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.conf.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.URL(key), nil
}

func (u *S3Uploader) URL(key string) string {
	base := u.conf.PublicBaseURL
	if base == "" {
		base = strings.TrimSuffix(u.conf.Endpoint, "/") + "/" + u.conf.Bucket
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
