package review

import (
	"context"
	"strings"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
)

// DefaultRating is used when a review is submitted without one.
const DefaultRating = 5

// Store persists reviews.
type Store interface {
	Create(ctx context.Context, rv *Review) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	Delete(ctx context.Context, id string) error
}

// PhotoUploader publishes the optional reviewer photo.
type PhotoUploader interface {
	Upload(ctx context.Context, f media.File) (string, error)
}

// Service contains the business logic for reviews.
type Service struct {
	store  Store
	photos PhotoUploader
}

// NewService creates a new review Service. photos may be nil.
func NewService(store Store, photos PhotoUploader) *Service {
	return &Service{store: store, photos: photos}
}

// Create validates and stores a review. When photo is set it is uploaded
// first and its URL replaces PhotoURL; an upload failure fails the review.
func (s *Service) Create(ctx context.Context, rv Review, photo *media.File) (*Review, error) {
	rv.Name = strings.TrimSpace(rv.Name)
	rv.Location = strings.TrimSpace(rv.Location)
	rv.ReviewText = strings.TrimSpace(rv.ReviewText)
	if rv.Rating == 0 {
		rv.Rating = DefaultRating
	}

	if err := form.First(
		form.Required("name", rv.Name),
		form.Required("reviewText", rv.ReviewText),
		form.MaxLen("reviewText", rv.ReviewText, 4000),
	); err != nil {
		return nil, err
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		return nil, &form.Error{Field: "rating", Message: "must be between 1 and 5"}
	}

	if photo != nil {
		if s.photos == nil {
			return nil, media.ErrNotConfigured
		}
		url, err := s.photos.Upload(ctx, *photo)
		if err != nil {
			return nil, err
		}
		rv.PhotoURL = url
	}

	saved, err := s.store.Create(ctx, &rv)
	if err != nil {
		return nil, err
	}
	logger.Infof("review: added review %s by %s", saved.ID, saved.Name)
	return saved, nil
}

// List returns every review, newest first.
func (s *Service) List(ctx context.Context) ([]Review, error) {
	return s.store.List(ctx)
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
