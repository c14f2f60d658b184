package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/storage"
)

// ObjectStore is the gallery bucket.
type ObjectStore interface {
	Lister
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// CacheWriter persists newly uploaded URLs into the content cache.
type CacheWriter interface {
	AppendGalleryURLs(ctx context.Context, c category.Category, urls []string) error
}

// Syncer triggers a synchronization pass.
type Syncer interface {
	Synchronize(ctx context.Context) (Index, bool)
}

// Failure is a file of a batch that was not added to the gallery.
type Failure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchResult is the outcome of one category upload.
type BatchResult struct {
	Category   category.Category `json:"category"`
	Uploaded   []Image           `json:"uploaded"`
	Failed     []Failure         `json:"failed"`
	Duplicates int               `json:"duplicates"`
	Synced     bool              `json:"synced"`
}

// Uploader adds images to one category of the gallery.
type Uploader struct {
	store    ObjectStore
	cache    CacheWriter
	state    *State
	syncer   Syncer
	obs      Observer
	maxBytes int64

	now    func() time.Time
	suffix func() string
}

// NewUploader creates an Uploader. store may be nil when object storage is
// not configured; uploads then fail with media.ErrNotConfigured.
func NewUploader(store ObjectStore, cache CacheWriter, state *State, syncer Syncer, maxBytes int64) *Uploader {
	return &Uploader{
		store:    store,
		cache:    cache,
		state:    state,
		syncer:   syncer,
		maxBytes: maxBytes,
		now:      time.Now,
		suffix:   func() string { return media.RandomSuffix(6) },
	}
}

// SetObserver attaches o to every following batch.
func (u *Uploader) SetObserver(o Observer) {
	u.obs = o
}

// ObjectKey names a gallery upload "{category}_{unixMillis}_{random6}.{ext}".
// The category prefix is what synchronization classifies the file by.
func ObjectKey(c category.Category, now time.Time, suffix, name string) string {
	return fmt.Sprintf("%s_%d_%s.%s", c, now.UnixMilli(), suffix, media.Extension(name))
}

// Upload stores files under category c. Files that fail validation are
// reported without touching the network. Accepted URLs are appended to the
// index and the cache, then a synchronization pass is triggered.
func (u *Uploader) Upload(ctx context.Context, c category.Category, files []media.File) (*BatchResult, error) {
	if !c.Valid() {
		return nil, category.ErrUnknown
	}
	if u.store == nil {
		return nil, media.ErrNotConfigured
	}

	res := &BatchResult{Category: c, Uploaded: []Image{}, Failed: []Failure{}}
	seen := make(map[string]struct{})
	for _, img := range u.state.Images(c) {
		seen[img.URL] = struct{}{}
	}

	var urls []string
	for i := range files {
		f := files[i]
		url, err := u.uploadOne(ctx, c, &f)
		if err != nil {
			var dup *duplicateError
			if errors.As(err, &dup) {
				if _, known := seen[dup.url]; known {
					res.Duplicates++
					continue
				}
			}
			logger.Warnf("gallery: upload %s to %s: %v", f.Name, c, err)
			res.Failed = append(res.Failed, Failure{Name: f.Name, Reason: failureReason(err)})
			continue
		}

		if _, known := seen[url]; known {
			res.Duplicates++
			continue
		}
		seen[url] = struct{}{}

		img := newImage(url, c)
		u.state.append(img)
		res.Uploaded = append(res.Uploaded, img)
		urls = append(urls, url)
	}

	if u.obs != nil {
		defer u.obs.ObserveUpload(c, res)
	}
	if len(urls) == 0 {
		return res, nil
	}

	if err := u.cache.AppendGalleryURLs(ctx, c, urls); err != nil {
		return res, fmt.Errorf("persist %s gallery: %w", c, err)
	}
	logger.Infof("gallery: added %d image(s) to %s", len(urls), c)

	if u.syncer != nil {
		_, res.Synced = u.syncer.Synchronize(ctx)
	}
	return res, nil
}

type duplicateError struct {
	url string
	err error
}

func (e *duplicateError) Error() string { return e.err.Error() }
func (e *duplicateError) Unwrap() error { return e.err }

func (u *Uploader) uploadOne(ctx context.Context, c category.Category, f *media.File) (string, error) {
	if err := media.Validate(f, u.maxBytes); err != nil {
		return "", err
	}

	key := ObjectKey(c, u.now(), u.suffix(), f.Name)
	err := u.store.Upload(ctx, key, f.Body, f.Size, f.ContentType)
	if errors.Is(err, storage.ErrObjectExists) {
		return "", &duplicateError{url: strings.TrimSpace(u.store.PublicURL(key)), err: err}
	}
	if err != nil {
		return "", err
	}

	url := strings.TrimSpace(u.store.PublicURL(key))
	if url == "" {
		return "", media.ErrNoPublicURL
	}
	return url, nil
}

func failureReason(err error) string {
	var ve *media.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Reason
	case errors.Is(err, media.ErrNoPublicURL):
		return "uploaded but no public URL was returned"
	case errors.Is(err, storage.ErrObjectExists):
		return "an object with the same name already exists"
	default:
		return "upload failed"
	}
}
