// Package gallery builds the categorized image index from the object store and
// the content cache, uploads new gallery images and serves one category at a time.
package gallery

import (
	"sync"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
)

// Image is one gallery entry. URL is its identity.
type Image struct {
	URL      string            `json:"url"`
	Category category.Category `json:"category"`
	Alt      string            `json:"alt"`
}

func newImage(url string, c category.Category) Image {
	return Image{URL: url, Category: c, Alt: c.AltText()}
}

// Index maps every category to its ordered images.
type Index map[category.Category][]Image

// NewIndex returns an index with an empty list for every category.
func NewIndex() Index {
	ix := make(Index, len(category.All))
	for _, c := range category.All {
		ix[c] = []Image{}
	}
	return ix
}

// Clone returns a deep copy of ix.
func (ix Index) Clone() Index {
	out := make(Index, len(ix))
	for c, images := range ix {
		out[c] = append([]Image{}, images...)
	}
	return out
}

// Counts returns the number of images per category.
func (ix Index) Counts() map[category.Category]int {
	out := make(map[category.Category]int, len(ix))
	for c, images := range ix {
		out[c] = len(images)
	}
	return out
}

// Total returns the number of images across all categories.
func (ix Index) Total() int {
	n := 0
	for _, images := range ix {
		n += len(images)
	}
	return n
}

// State is the process-wide gallery index. A synchronization pass swaps in a
// freshly built index; between passes only uploads append to it.
type State struct {
	mu     sync.RWMutex
	index  Index
	report *Report

	// appended collects images added while a pass is running. The pass may
	// have read the cache before they were written, so replace keeps them.
	passing  bool
	appended []Image
}

// NewState returns a State holding an empty index.
func NewState() *State {
	return &State{index: NewIndex()}
}

// Snapshot returns a copy of the current index.
func (s *State) Snapshot() Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Clone()
}

// Images returns a copy of the images of one category.
func (s *State) Images(c category.Category) []Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Image{}, s.index[c]...)
}

// Report returns the report of the last finished pass, or nil.
func (s *State) Report() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil
	}
	r := *s.report
	return &r
}

func (s *State) beginPass() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passing = true
	s.appended = nil
}

// replace swaps in ix, carrying over images appended since beginPass whose
// URL the new index does not hold.
func (s *State) replace(ix Index, r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.appended) > 0 {
		seen := make(map[string]struct{}, ix.Total())
		for _, images := range ix {
			for _, img := range images {
				seen[img.URL] = struct{}{}
			}
		}
		for _, img := range s.appended {
			if _, ok := seen[img.URL]; ok {
				continue
			}
			seen[img.URL] = struct{}{}
			ix[img.Category] = append(ix[img.Category], img)
		}
	}

	s.index = ix
	s.report = &r
	s.passing = false
	s.appended = nil
}

func (s *State) append(img Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[img.Category] = append(s.index[img.Category], img)
	if s.passing {
		s.appended = append(s.appended, img)
	}
}

// dedupe removes repeated URLs from category c in place and returns a copy
// of the cleaned list.
func (s *State) dedupe(c category.Category) []Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := s.index[c]
	seen := make(map[string]struct{}, len(images))
	unique := make([]Image, 0, len(images))
	for _, img := range images {
		if _, dup := seen[img.URL]; dup {
			continue
		}
		seen[img.URL] = struct{}{}
		unique = append(unique, img)
	}
	if len(unique) != len(images) {
		s.index[c] = unique
	}
	return append([]Image{}, unique...)
}
