package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// S3Storage implements Storage for one bucket through the AWS SDK. It talks
// to AWS itself or to any S3-compatible endpoint with path-style addressing.
type S3Storage struct {
	client     *s3.Client
	bucket     string
	publicBase string
	cursor     listCursor
}

// NewS3Client builds an SDK client with static credentials. An empty endpoint
// uses the regular AWS endpoints for region.
func NewS3Client(ctx context.Context, endpoint, region, accessKey, secretKey string, useSSL bool) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint == "" {
			return
		}
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		if !strings.Contains(endpoint, "://") {
			endpoint = scheme + endpoint
		}
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// NewS3Storage ensures the bucket exists with a public-read policy.
func NewS3Storage(ctx context.Context, client *s3.Client, bucket, publicBase string) (*S3Storage, error) {
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		logger.Infof("storage: created bucket %q", bucket)
	}

	_, err := client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(publicReadPolicy(bucket)),
	})
	if err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &S3Storage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload puts the object with If-None-Match so an existing key is never
// replaced. The body is buffered when the reader cannot seek, since the SDK
// needs a rewindable payload for signing over plain HTTP.
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	body, ok := reader.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("read upload body: %w", err)
		}
		body = bytes.NewReader(buf)
		size = int64(len(buf))
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(CacheControl),
		IfNoneMatch:  aws.String("*"),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return fmt.Errorf("put object %q: %w", key, ErrObjectExists)
		}
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object at key from the bucket.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// List pages through ListObjectsV2 and returns the window [offset, offset+limit).
// Consecutive pages resume after the previous page's last key.
func (s *S3Storage) List(ctx context.Context, prefix string, limit, offset int) ([]Object, error) {
	after, skip := s.cursor.resume(prefix, offset)
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}
	if after != "" {
		input.StartAfter = aws.String(after)
	}
	p := s3.NewListObjectsV2Paginator(s.client, input)

	var (
		out []Object
		idx int
	)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			s.cursor.advance(prefix, offset, nil)
			return out, fmt.Errorf("list objects in %q: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			if idx >= skip {
				out = append(out, Object{
					Key:          aws.ToString(obj.Key),
					Size:         aws.ToInt64(obj.Size),
					LastModified: aws.ToTime(obj.LastModified),
				})
				if len(out) == limit {
					s.cursor.advance(prefix, offset, out)
					return out, nil
				}
			}
			idx++
		}
	}
	s.cursor.advance(prefix, offset, out)
	return out, nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *S3Storage) PublicURL(key string) string {
	return publicURL(s.publicBase, s.bucket, key)
}
