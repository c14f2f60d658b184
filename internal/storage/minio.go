package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// MinioStorage implements Storage for one bucket of a MinIO (or any
// S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	cursor     listCursor
}

// NewMinioClient creates a MinIO client shared by all bucket stores.
func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
}

// NewMinioStorage ensures the bucket exists with a public-read policy and
// returns a ready-to-use MinioStorage.
func NewMinioStorage(ctx context.Context, client *minio.Client, bucket, publicBase string) (*MinioStorage, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		logger.Infof("storage: created bucket %q", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload streams reader to MinIO under key. size must be the exact byte count
// (pass -1 only if the size is genuinely unknown; MinIO will buffer it).
// An existing key is reported as ErrObjectExists.
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return fmt.Errorf("put object %q: %w", key, ErrObjectExists)
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("stat object %q: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: CacheControl,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object at key from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// List returns the window [offset, offset+limit) of the bucket listing under
// prefix. Consecutive pages resume after the previous page's last key.
// Folder entries are skipped.
func (s *MinioStorage) List(ctx context.Context, prefix string, limit, offset int) ([]Object, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	after, skip := s.cursor.resume(prefix, offset)
	var (
		out []Object
		idx int
	)
	opts := minio.ListObjectsOptions{Prefix: prefix, StartAfter: after}
	for info := range s.client.ListObjects(ctx, s.bucket, opts) {
		if info.Err != nil {
			s.cursor.advance(prefix, offset, nil)
			return out, fmt.Errorf("list objects in %q: %w", s.bucket, info.Err)
		}
		if strings.HasSuffix(info.Key, "/") {
			continue
		}
		if idx >= skip {
			out = append(out, Object{Key: info.Key, Size: info.Size, LastModified: info.LastModified})
			if len(out) == limit {
				break
			}
		}
		idx++
	}
	s.cursor.advance(prefix, offset, out)
	return out, nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/gallery-images/wedding_1700000000000_ab12cd.jpg"
func (s *MinioStorage) PublicURL(key string) string {
	return publicURL(s.publicBase, s.bucket, key)
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
