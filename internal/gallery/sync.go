package gallery

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/content"
	"github.com/Manikan-10/Party-Planners-Client/internal/events"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/storage"
)

// PageSize is the number of objects requested per listing call.
const PageSize = 100

var (
	imageName     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
	nameTimestamp = regexp.MustCompile(`_(\d{10,})_`)
)

// Lister is the read side of the gallery bucket.
type Lister interface {
	List(ctx context.Context, prefix string, limit, offset int) ([]storage.Object, error)
	PublicURL(key string) string
}

// Cache is the content cache as seen by the synchronizer.
type Cache interface {
	Load(ctx context.Context) (*content.Content, error)
	DedupeGallery(ctx context.Context) (int, error)
}

// Observer receives pass and upload outcomes, typically for metrics.
type Observer interface {
	ObserveSync(r Report)
	ObserveUpload(c category.Category, r *BatchResult)
}

// Subscriber delivers update notifications.
type Subscriber interface {
	Subscribe(buffer int) (<-chan events.Event, func())
}

// Source names where a pass took its images from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Report summarizes one synchronization pass.
type Report struct {
	Source     Source        `json:"source"`
	Listed     int           `json:"listed"`
	Accepted   int           `json:"accepted"`
	Dropped    int           `json:"dropped"`
	Duplicates int           `json:"duplicates"`
	FromCache  int           `json:"fromCache"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
}

// Synchronizer rebuilds the gallery index. At most one pass runs at a time;
// a call made while a pass is in flight returns immediately.
type Synchronizer struct {
	store Lister
	cache Cache
	state *State
	obs   Observer

	running atomic.Bool
	now     func() time.Time
}

// NewSynchronizer creates a Synchronizer. store may be nil when object
// storage is not configured; every pass is then local-only.
func NewSynchronizer(store Lister, cache Cache, state *State) *Synchronizer {
	return &Synchronizer{store: store, cache: cache, state: state, now: time.Now}
}

// SetObserver attaches o to every following pass.
func (s *Synchronizer) SetObserver(o Observer) {
	s.obs = o
}

// Synchronize runs one pass and swaps the result into the state. ran is false
// when another pass was already in flight; the current index is returned then.
func (s *Synchronizer) Synchronize(ctx context.Context) (ix Index, ran bool) {
	if !s.running.CompareAndSwap(false, true) {
		logger.Debugf("gallery: synchronization already running, skipping")
		return s.state.Snapshot(), false
	}
	defer s.running.Store(false)
	s.state.beginPass()

	start := s.now()
	ix, report := s.pass(ctx)
	report.StartedAt = start
	report.Duration = s.now().Sub(start)

	s.state.replace(ix, report)
	if s.obs != nil {
		s.obs.ObserveSync(report)
	}
	logger.WithFields(map[string]interface{}{
		"source":     report.Source,
		"listed":     report.Listed,
		"accepted":   report.Accepted,
		"dropped":    report.Dropped,
		"duplicates": report.Duplicates,
		"fromCache":  report.FromCache,
	}).Infof("gallery: synchronized %d images", ix.Total())
	return ix.Clone(), true
}

// Watch re-runs synchronization for every galleryUpdated event until ctx ends.
func (s *Synchronizer) Watch(ctx context.Context, sub Subscriber) {
	ch, cancel := sub.Subscribe(8)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.Type == events.GalleryUpdated {
				s.Synchronize(ctx)
			}
		}
	}
}

func (s *Synchronizer) pass(ctx context.Context) (ix Index, report Report) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("gallery: synchronization panicked, using cached gallery: %v", r)
			ix, report = s.local(ctx)
		}
	}()

	if n, err := s.cache.DedupeGallery(ctx); err != nil {
		logger.Warnf("gallery: dedupe cached gallery: %v", err)
	} else if n > 0 {
		logger.Infof("gallery: removed %d duplicate cached URL(s)", n)
	}

	if s.store == nil {
		logger.Debugf("gallery: object storage not configured, loading cached gallery")
		return s.local(ctx)
	}

	ix, report = s.remote(ctx)
	if report.Accepted == 0 {
		logger.Infof("gallery: no images from object storage, loading cached gallery")
		local, lr := s.local(ctx)
		lr.Listed, lr.Dropped = report.Listed, report.Dropped
		return local, lr
	}
	return ix, report
}

// remote builds the index from the bucket listing, then adds cached URLs the
// listing did not contain.
func (s *Synchronizer) remote(ctx context.Context) (Index, Report) {
	report := Report{Source: SourceRemote}
	ix := NewIndex()
	seen := make(map[string]struct{})

	names := s.listImageNames(ctx)
	report.Listed = len(names)

	for _, name := range names {
		c, ok := category.Infer(name)
		if !ok {
			report.Dropped++
			logger.Warnf("gallery: %s matches no category, not shown", name)
			continue
		}
		url := strings.TrimSpace(s.store.PublicURL(name))
		if url == "" {
			logger.Warnf("gallery: %s has no public URL", name)
			continue
		}
		if _, dup := seen[url]; dup {
			report.Duplicates++
			continue
		}
		seen[url] = struct{}{}
		ix[c] = append(ix[c], newImage(url, c))
		report.Accepted++
	}

	if report.Accepted == 0 {
		return ix, report
	}

	cached, err := s.cache.Load(ctx)
	if err != nil {
		logger.Warnf("gallery: load cached gallery for merge: %v", err)
		return ix, report
	}
	for _, c := range category.All {
		for _, url := range cached.Gallery[c] {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			ix[c] = append(ix[c], newImage(url, c))
			report.FromCache++
		}
	}
	return ix, report
}

// local builds the index from the content cache alone.
func (s *Synchronizer) local(ctx context.Context) (Index, Report) {
	report := Report{Source: SourceLocal}
	ix := NewIndex()

	cached, err := s.cache.Load(ctx)
	if err != nil {
		logger.Errorf("gallery: load cached gallery: %v", err)
		return ix, report
	}

	seen := make(map[string]struct{})
	for _, c := range category.All {
		for _, url := range cached.Gallery[c] {
			if _, dup := seen[url]; dup {
				report.Duplicates++
				continue
			}
			seen[url] = struct{}{}
			ix[c] = append(ix[c], newImage(url, c))
			report.FromCache++
		}
	}
	return ix, report
}

// listImageNames pages through the bucket and returns image names, newest first.
// A listing error ends paging; names gathered so far are kept.
func (s *Synchronizer) listImageNames(ctx context.Context) []string {
	var names []string
	for offset := 0; ; offset += PageSize {
		page, err := s.store.List(ctx, "", PageSize, offset)
		if err != nil {
			logger.Warnf("gallery: list objects at offset %d: %v", offset, err)
			break
		}
		for _, obj := range page {
			if isImageName(obj.Key) {
				names = append(names, obj.Key)
			}
		}
		if len(page) < PageSize {
			break
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		return nameTime(names[i]) > nameTime(names[j])
	})
	return names
}

func isImageName(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") && imageName.MatchString(name)
}

// nameTime returns the timestamp embedded in name, or 0.
func nameTime(name string) int64 {
	m := nameTimestamp.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
