// Package dashboard aggregates what the admin panel shows on its first screen.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Manikan-10/Party-Planners-Client/internal/booking"
	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/contact"
	"github.com/Manikan-10/Party-Planners-Client/internal/gallery"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/response"
	"github.com/Manikan-10/Party-Planners-Client/internal/review"
)

type contactLister interface {
	List(ctx context.Context) ([]contact.Contact, error)
}

type bookingLister interface {
	List(ctx context.Context) ([]booking.Booking, error)
}

type reviewLister interface {
	List(ctx context.Context) ([]review.Review, error)
}

// Summary is the admin overview.
type Summary struct {
	Contacts      []contact.Contact         `json:"contacts"`
	Bookings      []booking.Booking         `json:"bookings"`
	Reviews       []review.Review           `json:"reviews"`
	BookingStatus map[booking.Status]int    `json:"bookingStatus"`
	Gallery       map[category.Category]int `json:"gallery"`
	GalleryTotal  int                       `json:"galleryTotal"`
	LastSync      *gallery.Report           `json:"lastSync,omitempty"`
}

// Service builds the admin overview.
type Service struct {
	contacts contactLister
	bookings bookingLister
	reviews  reviewLister
	state    *gallery.State
}

// NewService creates a new dashboard Service.
func NewService(contacts contactLister, bookings bookingLister, reviews reviewLister, state *gallery.State) *Service {
	return &Service{contacts: contacts, bookings: bookings, reviews: reviews, state: state}
}

// Load reads the three tables concurrently. The first failure cancels the rest.
func (s *Service) Load(ctx context.Context) (*Summary, error) {
	out := &Summary{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.contacts.List(ctx)
		if err != nil {
			return fmt.Errorf("load contacts: %w", err)
		}
		out.Contacts = list
		return nil
	})
	g.Go(func() error {
		list, err := s.bookings.List(ctx)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		out.Bookings = list
		return nil
	})
	g.Go(func() error {
		list, err := s.reviews.List(ctx)
		if err != nil {
			return fmt.Errorf("load reviews: %w", err)
		}
		out.Reviews = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.Contacts == nil {
		out.Contacts = []contact.Contact{}
	}
	if out.Bookings == nil {
		out.Bookings = []booking.Booking{}
	}
	if out.Reviews == nil {
		out.Reviews = []review.Review{}
	}
	out.BookingStatus = make(map[booking.Status]int)
	for _, b := range out.Bookings {
		out.BookingStatus[b.Status]++
	}

	ix := s.state.Snapshot()
	out.Gallery = ix.Counts()
	out.GalleryTotal = ix.Total()
	out.LastSync = s.state.Report()
	return out, nil
}

// Handler serves the admin overview.
type Handler struct {
	svc *Service
}

// NewHandler creates a new dashboard Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get godoc
//
//	@Summary		Admin overview
//	@Description	Contacts, bookings and reviews newest first, booking counts per status, image counts per gallery category and the last synchronization report.
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=Summary}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/dashboard [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Load(r.Context())
	if err != nil {
		logger.Errorf("dashboard: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, sum)
}
