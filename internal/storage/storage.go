// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup:
// MinIO (any S3-compatible provider), the AWS SDK S3 driver, or the in-memory
// store used for local development.
package storage

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// CacheControl is attached to every uploaded object.
const CacheControl = "max-age=3600"

// ErrObjectExists is returned by Upload when the key is already taken.
// Uploads never overwrite.
var ErrObjectExists = errors.New("object already exists")

// Object is one entry of a bucket listing.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is the interface for uploading, listing and addressing objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// List returns at most limit objects under prefix, skipping the first offset.
	// Order is whatever the backend returns.
	List(ctx context.Context, prefix string, limit, offset int) ([]Object, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// publicURL joins base, bucket and key with single slashes.
func publicURL(base, bucket, key string) string {
	if base == "" {
		return ""
	}
	return base + "/" + bucket + "/" + key
}

// listCursor remembers where the previous page ended. A caller paging with
// growing offsets resumes after that key instead of walking the listing
// again from the start; any other offset falls back to skipping.
type listCursor struct {
	mu     sync.Mutex
	prefix string
	offset int
	after  string
}

// resume returns the key to list after and how many entries to skip.
func (c *listCursor) resume(prefix string, offset int) (after string, skip int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offset > 0 && c.after != "" && c.prefix == prefix && c.offset == offset {
		return c.after, 0
	}
	return "", offset
}

// advance records the end of page, which was requested at offset.
func (c *listCursor) advance(prefix string, offset int, page []Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(page) == 0 {
		c.prefix, c.offset, c.after = "", 0, ""
		return
	}
	c.prefix, c.offset, c.after = prefix, offset+len(page), page[len(page)-1].Key
}
