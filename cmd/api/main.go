//	@title			Party Planners API
//	@version		1.0
//	@description	Backend for the Party Planners marketing site and admin panel: gallery, bookings, inquiries, reviews and editable content.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	promclient "github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/Manikan-10/Party-Planners-Client/internal/auth"
	"github.com/Manikan-10/Party-Planners-Client/internal/booking"
	"github.com/Manikan-10/Party-Planners-Client/internal/config"
	"github.com/Manikan-10/Party-Planners-Client/internal/contact"
	"github.com/Manikan-10/Party-Planners-Client/internal/content"
	"github.com/Manikan-10/Party-Planners-Client/internal/dashboard"
	"github.com/Manikan-10/Party-Planners-Client/internal/db"
	"github.com/Manikan-10/Party-Planners-Client/internal/events"
	"github.com/Manikan-10/Party-Planners-Client/internal/gallery"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/mailer"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/metrics"
	appMiddleware "github.com/Manikan-10/Party-Planners-Client/internal/middleware"
	"github.com/Manikan-10/Party-Planners-Client/internal/review"
	"github.com/Manikan-10/Party-Planners-Client/internal/storage"

	_ "github.com/Manikan-10/Party-Planners-Client/docs/swagger"
)

// buckets holds one store per bucket. Fields stay nil when object storage is
// not configured.
type buckets struct {
	gallery gallery.ObjectStore
	home    media.Uploader
	review  media.Uploader
	assets  media.Uploader
}

func openBuckets(ctx context.Context, cfg *config.Config) (*buckets, error) {
	b := &buckets{}
	if !cfg.StorageConfigured() {
		logger.Warn("object storage is not configured; gallery runs from the cached lists only")
		return b, nil
	}

	var open func(bucket string) (storage.Storage, error)
	switch cfg.StorageDriver {
	case "memory":
		open = func(bucket string) (storage.Storage, error) {
			return storage.NewMemoryStorage(bucket, cfg.StoragePublicBase), nil
		}
	case "s3":
		client, err := storage.NewS3Client(ctx, cfg.StorageEndpoint, cfg.StorageRegion, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageUseSSL)
		if err != nil {
			return nil, err
		}
		open = func(bucket string) (storage.Storage, error) {
			return storage.NewS3Storage(ctx, client, bucket, cfg.StoragePublicBase)
		}
	case "minio":
		client, err := storage.NewMinioClient(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageUseSSL)
		if err != nil {
			return nil, err
		}
		open = func(bucket string) (storage.Storage, error) {
			return storage.NewMinioStorage(ctx, client, bucket, cfg.StoragePublicBase)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	for _, t := range []struct {
		bucket string
		assign func(storage.Storage)
	}{
		{cfg.GalleryBucket, func(s storage.Storage) { b.gallery = s }},
		{cfg.HomePhotoBucket, func(s storage.Storage) { b.home = s }},
		{cfg.ReviewPhotoBucket, func(s storage.Storage) { b.review = s }},
		{cfg.SiteAssetBucket, func(s storage.Storage) { b.assets = s }},
	} {
		s, err := open(t.bucket)
		if err != nil {
			return nil, fmt.Errorf("open bucket %q: %w", t.bucket, err)
		}
		t.assign(s)
	}
	logger.Infof("object storage ready (driver=%s)", cfg.StorageDriver)
	return b, nil
}

func main() {
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatalf("database migration failed: %v", err)
	}

	stores, err := openBuckets(ctx, cfg)
	if err != nil {
		logger.Fatalf("object storage init failed: %v", err)
	}

	observer, err := metrics.NewObserver(promclient.DefaultRegisterer)
	if err != nil {
		logger.Fatalf("metrics init failed: %v", err)
	}

	// Notifications: in-process bus, relayed to other instances and browsers.
	bus := events.NewBus()
	bridge := events.NewPGBridge(pool, bus)
	go bridge.Run(ctx)

	// Wire dependencies: repository → service → handler
	contentSvc := content.NewService(content.NewRepository(pool), bus)
	contentHandler := content.NewHandler(contentSvc, media.NewCoverUploader(stores.assets, cfg.CoverMaxBytes), cfg.CoverMaxBytes)

	var lister gallery.Lister
	if stores.gallery != nil {
		lister = stores.gallery
	}
	state := gallery.NewState()
	syncer := gallery.NewSynchronizer(lister, contentSvc, state)
	syncer.SetObserver(observer)
	uploader := gallery.NewUploader(stores.gallery, contentSvc, state, syncer, cfg.GalleryMaxBytes)
	uploader.SetObserver(observer)
	galleryHandler := gallery.NewHandler(state, syncer, uploader, contentSvc)

	syncer.Synchronize(ctx)
	go syncer.Watch(ctx, bus)

	mail := mailer.New(cfg)

	contactSvc := contact.NewService(contact.NewRepository(pool), mail)
	contactHandler := contact.NewHandler(contactSvc)

	bookingSvc := booking.NewService(booking.NewRepository(pool), media.NewCoverUploader(stores.home, cfg.CoverMaxBytes), mail, cfg.CoverMaxBytes)
	bookingHandler := booking.NewHandler(bookingSvc)

	reviewSvc := review.NewService(review.NewRepository(pool), media.NewCoverUploader(stores.review, cfg.CoverMaxBytes))
	reviewHandler := review.NewHandler(reviewSvc, cfg.CoverMaxBytes)

	authHandler := auth.NewHandler(auth.NewService(cfg))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(contactSvc, bookingSvc, reviewSvc, state))
	eventsHandler := events.NewHandler(bus)

	formLimit := appMiddleware.RateLimit(appMiddleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             cfg.RateLimitBurst,
	})
	confirm := appMiddleware.RequireConfirm(appMiddleware.QueryConfirmer)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(observer.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(promclient.DefaultGatherer))

	// Swagger UI at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/gallery", galleryHandler.List)
		r.Get("/gallery/{category}", galleryHandler.Show)
		r.Get("/content", contentHandler.Get)
		r.Get("/reviews", reviewHandler.List)
		r.Get("/events", eventsHandler.Stream)
		r.With(formLimit).Post("/contacts", contactHandler.Create)
		r.With(formLimit).Post("/bookings", bookingHandler.Create)

		r.Route("/admin", func(r chi.Router) {
			r.With(formLimit).Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAdmin(cfg.JWTSecret))

				r.Get("/dashboard", dashboardHandler.Get)

				r.Get("/contacts", contactHandler.List)
				r.With(confirm).Delete("/contacts/{id}", contactHandler.Delete)

				r.Get("/bookings", bookingHandler.List)
				r.Patch("/bookings/{id}/status", bookingHandler.UpdateStatus)
				r.With(confirm).Delete("/bookings/{id}", bookingHandler.Delete)

				r.Post("/reviews", reviewHandler.Create)
				r.With(confirm).Delete("/reviews/{id}", reviewHandler.Delete)

				r.Put("/content", contentHandler.Put)
				r.With(confirm).Delete("/content", contentHandler.Reset)
				r.Post("/content/about-image", contentHandler.UploadAboutImage)

				r.Put("/gallery/{category}", galleryHandler.SetCategory)
				r.Post("/gallery/{category}/images", galleryHandler.UploadImages)
				r.Post("/gallery/sync", galleryHandler.Sync)
				r.Get("/gallery/report", galleryHandler.Report)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		logger.Infof("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("forced shutdown: %v", err)
	}

	logger.Info("server stopped")
}
