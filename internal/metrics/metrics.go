// Package metrics exports gallery and HTTP metrics to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/gallery"
)

const namespace = "party_planners"

// Observer records synchronization passes, upload batches and HTTP requests.
type Observer struct {
	syncPasses    *promclient.CounterVec
	syncDuration  promclient.Histogram
	syncDropped   promclient.Counter
	galleryImages promclient.Gauge
	uploads       *promclient.CounterVec
	httpDuration  *promclient.HistogramVec
}

// NewObserver registers the metrics on reg, reusing collectors that are
// already registered. reg defaults to the global registerer.
func NewObserver(reg promclient.Registerer) (*Observer, error) {
	if reg == nil {
		reg = promclient.DefaultRegisterer
	}
	o := &Observer{}
	var err error

	if o.syncPasses, err = register(reg, promclient.NewCounterVec(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "gallery_sync_passes_total",
		Help:      "Gallery synchronization passes by index source.",
	}, []string{"source"})); err != nil {
		return nil, err
	}
	if o.syncDuration, err = register(reg, promclient.NewHistogram(promclient.HistogramOpts{
		Namespace: namespace,
		Name:      "gallery_sync_duration_seconds",
		Help:      "Latency of gallery synchronization passes.",
		Buckets:   promclient.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if o.syncDropped, err = register(reg, promclient.NewCounter(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "gallery_sync_dropped_total",
		Help:      "Listed images that matched no category.",
	})); err != nil {
		return nil, err
	}
	if o.galleryImages, err = register(reg, promclient.NewGauge(promclient.GaugeOpts{
		Namespace: namespace,
		Name:      "gallery_images",
		Help:      "Images in the gallery index after the last pass.",
	})); err != nil {
		return nil, err
	}
	if o.uploads, err = register(reg, promclient.NewCounterVec(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "gallery_uploads_total",
		Help:      "Uploaded gallery files by category and outcome.",
	}, []string{"category", "outcome"})); err != nil {
		return nil, err
	}
	if o.httpDuration, err = register(reg, promclient.NewHistogramVec(promclient.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   promclient.DefBuckets,
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C promclient.Collector](reg promclient.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(promclient.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// ObserveSync records one synchronization pass.
func (o *Observer) ObserveSync(r gallery.Report) {
	if o == nil {
		return
	}
	o.syncPasses.WithLabelValues(string(r.Source)).Inc()
	o.syncDuration.Observe(r.Duration.Seconds())
	o.syncDropped.Add(float64(r.Dropped))
	o.galleryImages.Set(float64(r.Accepted + r.FromCache))
}

// ObserveUpload records the outcome of one upload batch.
func (o *Observer) ObserveUpload(c category.Category, r *gallery.BatchResult) {
	if o == nil || r == nil {
		return
	}
	o.uploads.WithLabelValues(string(c), "uploaded").Add(float64(len(r.Uploaded)))
	o.uploads.WithLabelValues(string(c), "failed").Add(float64(len(r.Failed)))
	o.uploads.WithLabelValues(string(c), "duplicate").Add(float64(r.Duplicates))
}

// Middleware records request latency labelled by the matched chi route.
func (o *Observer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		o.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics gathered by g.
func Handler(g promclient.Gatherer) http.Handler {
	if g == nil {
		g = promclient.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var _ gallery.Observer = (*Observer)(nil)
