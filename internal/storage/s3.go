package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Default timeout for S3 operations
const DefaultS3Timeout = 30 * time.Second

// S3BlobStore stores thumbnail blobs in an S3 bucket.
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

// NewS3BlobStore creates an S3BlobStore backed by the given client and bucket.
func NewS3BlobStore(client *s3.Client, bucket string) *S3BlobStore {
	return &S3BlobStore{
		client: client,
		bucket: bucket,
	}
}

// PutBlob uploads the blob and blocks until S3 acknowledges the write.
func (s *S3BlobStore) PutBlob(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultS3Timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return nil
}

// GetBlob downloads the blob into memory.
func (s *S3BlobStore) GetBlob(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultS3Timeout)
	defer cancel()

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return data, nil
}
