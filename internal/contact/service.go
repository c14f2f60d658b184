package contact

import (
	"context"
	"strings"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/mailer"
)

// Store persists contacts.
type Store interface {
	Create(ctx context.Context, c *Contact) (*Contact, error)
	List(ctx context.Context) ([]Contact, error)
	Delete(ctx context.Context, id string) error
}

// Notifier tells the business owner about a new inquiry.
type Notifier interface {
	NotifyInquiry(ctx context.Context, in mailer.Inquiry) error
}

// Service contains the business logic for inquiries.
type Service struct {
	store    Store
	notifier Notifier
}

// NewService creates a new contact Service. notifier may be nil.
func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Create validates and stores an inquiry, then notifies the owner. A failed
// notification is logged and does not fail the submission.
func (s *Service) Create(ctx context.Context, c Contact) (*Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Message = strings.TrimSpace(c.Message)

	if err := form.First(
		form.Required("name", c.Name),
		form.MaxLen("name", c.Name, 120),
		form.Required("email", c.Email),
		form.Email("email", c.Email),
		form.MaxLen("subject", c.Subject, 200),
		form.Required("message", c.Message),
		form.MaxLen("message", c.Message, 5000),
	); err != nil {
		return nil, err
	}

	saved, err := s.store.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	logger.Infof("contact: new inquiry %s", saved.ID)

	if s.notifier != nil {
		in := mailer.Inquiry{Name: saved.Name, Email: saved.Email, Phone: saved.Phone, Subject: saved.Subject, Message: saved.Message}
		if err := s.notifier.NotifyInquiry(ctx, in); err != nil {
			logger.Warnf("contact: notify inquiry %s: %v", saved.ID, err)
		}
	}
	return saved, nil
}

// List returns every inquiry, newest first.
func (s *Service) List(ctx context.Context) ([]Contact, error) {
	return s.store.List(ctx)
}

// Delete removes an inquiry.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
