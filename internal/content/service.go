package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/events"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// RecordStore is a string-keyed store of JSON values.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Publisher announces that the cached content changed.
type Publisher interface {
	Publish(ctx context.Context, t events.Type)
}

// Service reads and writes the website content record. Read-modify-write
// operations are serialized within the process; across processes the last
// writer wins.
type Service struct {
	store RecordStore
	pub   Publisher
	mu    sync.Mutex
}

// NewService creates a content Service. pub may be nil.
func NewService(store RecordStore, pub Publisher) *Service {
	return &Service{store: store, pub: pub}
}

// Load returns the stored content, or empty content when none was saved yet.
func (s *Service) Load(ctx context.Context) (*Content, error) {
	raw, err := s.store.Get(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		return &Content{Gallery: Gallery{}}, nil
	}
	if err != nil {
		return nil, err
	}

	c := &Content{}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", Key, err)
	}
	if c.Gallery == nil {
		c.Gallery = Gallery{}
	}
	return c, nil
}

// Save replaces the stored content and announces the change.
func (s *Service) Save(ctx context.Context, c *Content) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, c, true)
}

// Reset removes the stored content so the site falls back to its defaults.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, Key); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// SetGalleryCategory replaces the URL list of one category.
func (s *Service) SetGalleryCategory(ctx context.Context, cat category.Category, urls []string) (*Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	list, _ := Clean(urls).Dedupe()
	c.Gallery[cat] = list
	if err := s.write(ctx, c, true); err != nil {
		return nil, err
	}
	return c, nil
}

// AppendGalleryURLs adds urls to the end of a category, skipping ones already present.
func (s *Service) AppendGalleryURLs(ctx context.Context, cat category.Category, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	list, _ := append(c.Gallery[cat], Clean(urls)...).Dedupe()
	c.Gallery[cat] = list
	return s.write(ctx, c, true)
}

// SetAboutImage stores url as the about section image.
func (s *Service) SetAboutImage(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if c.About == nil {
		c.About = &About{}
	}
	c.About.Image = url
	return s.write(ctx, c, true)
}

// DedupeGallery removes repeated URLs inside each category and rewrites the
// record only when something changed. No notification is sent.
func (s *Service) DedupeGallery(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for cat, list := range c.Gallery {
		cleaned, n := list.Dedupe()
		if n > 0 {
			logger.Infof("content: removed %d duplicate URL(s) from %s gallery", n, cat)
			c.Gallery[cat] = cleaned
			removed += n
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.write(ctx, c, false)
}

func (s *Service) write(ctx context.Context, c *Content, notify bool) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", Key, err)
	}
	if err := s.store.Set(ctx, Key, raw); err != nil {
		return err
	}
	if notify {
		s.publish(ctx)
	}
	return nil
}

func (s *Service) publish(ctx context.Context) {
	if s.pub != nil {
		s.pub.Publish(ctx, events.GalleryUpdated)
	}
}
