package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStorage keeps objects in process memory. It backs STORAGE_DRIVER=memory
// for local development and doubles as the store in package tests.
type MemoryStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	modified   map[string]time.Time
	bucket     string
	publicBase string

	// ListErr, when set, is returned by every List call.
	ListErr error
	// UploadErr, when set, is returned by every Upload call.
	UploadErr error
	// ListHook, when set, runs at the start of every List call.
	ListHook func()

	listCalls   atomic.Int64
	uploadCalls atomic.Int64
	cursor      listCursor
}

// NewMemoryStorage returns an empty in-memory bucket.
func NewMemoryStorage(bucket, publicBase string) *MemoryStorage {
	return &MemoryStorage{
		objects:    make(map[string][]byte),
		modified:   make(map[string]time.Time),
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Put stores data under key without the no-overwrite check.
func (s *MemoryStorage) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.modified[key] = time.Now()
}

// Has reports whether key is stored.
func (s *MemoryStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Keys returns all stored keys in lexical order.
func (s *MemoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListCalls returns how many times List was invoked.
func (s *MemoryStorage) ListCalls() int64 { return s.listCalls.Load() }

// UploadCalls returns how many times Upload was invoked.
func (s *MemoryStorage) UploadCalls() int64 { return s.uploadCalls.Load() }

func (s *MemoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	s.uploadCalls.Add(1)
	if s.UploadErr != nil {
		return s.UploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return fmt.Errorf("put object %q: %w", key, ErrObjectExists)
	}
	s.objects[key] = data
	s.modified[key] = time.Now()
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	delete(s.modified, key)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, prefix string, limit, offset int) ([]Object, error) {
	s.listCalls.Add(1)
	if s.ListHook != nil {
		s.ListHook()
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	after, skip := s.cursor.resume(prefix, offset)
	var out []Object
	for _, key := range s.Keys() {
		if !strings.HasPrefix(key, prefix) || (after != "" && key <= after) {
			continue
		}
		out = append(out, s.object(key))
	}
	if skip >= len(out) {
		out = nil
	} else {
		out = out[skip:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	s.cursor.advance(prefix, offset, out)
	return out, nil
}

func (s *MemoryStorage) object(key string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Object{Key: key, Size: int64(len(s.objects[key])), LastModified: s.modified[key]}
}

func (s *MemoryStorage) PublicURL(key string) string {
	return publicURL(s.publicBase, s.bucket, key)
}
