package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// Uploader is the subset of storage.Storage needed to publish an image.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// CoverUploader stores single images (booking home photos, review photos,
// the about-section image) under generated names.
type CoverUploader struct {
	store    Uploader
	maxBytes int64
	now      func() time.Time
}

// NewCoverUploader creates a CoverUploader. store may be nil when object
// storage is not configured; Upload then fails with ErrNotConfigured.
func NewCoverUploader(store Uploader, maxBytes int64) *CoverUploader {
	return &CoverUploader{store: store, maxBytes: maxBytes, now: time.Now}
}

// ErrNotConfigured is returned when no object store is available.
var ErrNotConfigured = errors.New("object storage is not configured")

// Upload validates f, stores it and returns its public URL.
func (u *CoverUploader) Upload(ctx context.Context, f File) (string, error) {
	if err := Validate(&f, u.maxBytes); err != nil {
		return "", err
	}
	if u.store == nil {
		return "", ErrNotConfigured
	}

	key := CoverKey(u.now(), f.Name, RandomSuffix(6))
	if err := u.store.Upload(ctx, key, f.Body, f.Size, f.ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}

	url := strings.TrimSpace(u.store.PublicURL(key))
	if url == "" {
		return "", ErrNoPublicURL
	}
	logger.Infof("media: uploaded %s as %s", f.Name, key)
	return url, nil
}
