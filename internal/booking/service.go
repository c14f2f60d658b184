package booking

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/mailer"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
)

var gateCodePattern = regexp.MustCompile(`^[A-Za-z0-9#*]*$`)

// Store persists bookings.
type Store interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
	Delete(ctx context.Context, id string) error
}

// PhotoUploader publishes the optional home photo.
type PhotoUploader interface {
	Upload(ctx context.Context, f media.File) (string, error)
}

// Notifier tells the business owner about a new booking.
type Notifier interface {
	NotifyBooking(ctx context.Context, bn mailer.BookingNotice) error
}

// Created is the outcome of a booking submission. PhotoWarning is set when
// the booking was stored but its home photo could not be uploaded.
type Created struct {
	Booking      *Booking `json:"booking"`
	PhotoWarning string   `json:"photoWarning,omitempty"`
}

// Service contains the business logic for bookings.
type Service struct {
	store         Store
	photos        PhotoUploader
	notifier      Notifier
	photoMaxBytes int64
	now           func() time.Time
}

// NewService creates a new booking Service. photos and notifier may be nil.
func NewService(store Store, photos PhotoUploader, notifier Notifier, photoMaxBytes int64) *Service {
	return &Service{store: store, photos: photos, notifier: notifier, photoMaxBytes: photoMaxBytes, now: time.Now}
}

// Create validates and stores a booking. The optional photo is validated up
// front; an upload failure afterwards is reported as a warning only.
func (s *Service) Create(ctx context.Context, b Booking, photo *media.File) (*Created, error) {
	normalize(&b)
	if err := s.validate(&b); err != nil {
		return nil, err
	}
	if photo != nil {
		if err := media.Validate(photo, s.photoMaxBytes); err != nil {
			return nil, err
		}
	}

	out := &Created{}
	if photo != nil {
		url, err := s.uploadPhoto(ctx, *photo)
		if err != nil {
			logger.Warnf("booking: home photo %s not uploaded: %v", photo.Name, err)
			out.PhotoWarning = "booking saved, but the home photo could not be uploaded"
		}
		b.HomePhotoURL = url
	}

	saved, err := s.store.Create(ctx, &b)
	if err != nil {
		return nil, err
	}
	out.Booking = saved
	logger.Infof("booking: new booking %s for %s", saved.ID, saved.EventDate)

	if s.notifier != nil {
		bn := mailer.BookingNotice{
			EventTitle:    saved.EventTitle,
			EventDate:     saved.EventDate,
			EventTime:     saved.EventTime,
			Address:       saved.Address,
			FamilyMembers: saved.FamilyMembers,
			SpecialNeeds:  saved.SpecialNeeds,
			HomePhotoURL:  saved.HomePhotoURL,
		}
		if err := s.notifier.NotifyBooking(ctx, bn); err != nil {
			logger.Warnf("booking: notify %s: %v", saved.ID, err)
		}
	}
	return out, nil
}

func (s *Service) uploadPhoto(ctx context.Context, f media.File) (string, error) {
	if s.photos == nil {
		return "", media.ErrNotConfigured
	}
	return s.photos.Upload(ctx, f)
}

// List returns every booking, newest first.
func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.store.List(ctx)
}

// UpdateStatus moves a booking to status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, &form.Error{Field: "status", Message: "must be one of pending, confirmed, completed, cancelled"}
	}
	return s.store.UpdateStatus(ctx, id, status)
}

// Delete removes a booking.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func normalize(b *Booking) {
	for _, f := range []*string{
		&b.EventTitle, &b.EventDate, &b.EventTime, &b.Address, &b.HomeName, &b.GateCode,
		&b.WifiUsername, &b.WifiPassword, &b.FamilyMembers, &b.ComplimentsNames,
		&b.PanditDetails, &b.Highlights, &b.SpecialNeeds,
	} {
		*f = strings.TrimSpace(*f)
	}
	b.HomePhotoURL = ""
	b.Status = StatusPending
}

func (s *Service) validate(b *Booking) error {
	if err := form.First(
		form.Required("eventTitle", b.EventTitle),
		form.Required("eventDate", b.EventDate),
		form.Required("eventTime", b.EventTime),
		form.Required("address", b.Address),
		form.Required("familyMembers", b.FamilyMembers),
	); err != nil {
		return err
	}

	date, err := time.ParseInLocation("2006-01-02", b.EventDate, time.Local)
	if err != nil {
		return &form.Error{Field: "eventDate", Message: "must be a date like 2026-12-31"}
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if date.Before(today) {
		return &form.Error{Field: "eventDate", Message: "cannot be in the past"}
	}

	if _, err := time.Parse("15:04", b.EventTime); err != nil {
		if _, err := time.Parse("15:04:05", b.EventTime); err != nil {
			return &form.Error{Field: "eventTime", Message: "must be a time like 18:30"}
		}
	}

	if !gateCodePattern.MatchString(b.GateCode) {
		return &form.Error{Field: "gateCode", Message: "may contain only letters, digits, # and *"}
	}
	return nil
}
