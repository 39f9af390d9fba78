// Package publish uploads finished renders to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-stratified-raytracer/pkg/config"
	"github.com/df07/go-stratified-raytracer/pkg/core"
)

// UploadTimeout bounds a single PutObject call
const UploadTimeout = 10 * time.Second

// ErrNoBucket is returned when publishing is requested without a bucket
var ErrNoBucket = errors.New("no S3 bucket configured")

// Uploader puts render artifacts into a bucket under a key prefix
type Uploader struct {
	client  s3iface.S3API
	bucket  string
	prefix  string
	timeout time.Duration
	logger  core.Logger
}

// NewUploader creates an uploader around an existing S3 client
func NewUploader(client s3iface.S3API, bucket, prefix string, logger core.Logger) *Uploader {
	return &Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: UploadTimeout,
		logger:  logger,
	}
}

// NewS3Uploader builds a session with static credentials and path-style
// addressing so that S3-compatible stores (MinIO, R2) work with a custom endpoint.
func NewS3Uploader(cfg config.S3Config, logger core.Logger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrNoBucket
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewUploader(s3.New(sess), cfg.Bucket, cfg.Prefix, logger), nil
}

// Key joins the uploader prefix and name into an object key
func (u *Uploader) Key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload stores data under Key(name) and returns the full key
func (u *Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	key := u.Key(name)
	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, u.bucket, size)
	}
	return key, nil
}

// ContentType returns the MIME type for a render artifact file name
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".ppm":
		return "image/x-portable-pixmap"
	case ".zst":
		return "application/zstd"
	case ".sz":
		return "application/x-snappy-framed"
	default:
		return "application/octet-stream"
	}
}
