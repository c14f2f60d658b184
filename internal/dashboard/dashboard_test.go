package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manikan-10/Party-Planners-Client/internal/booking"
	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/contact"
	"github.com/Manikan-10/Party-Planners-Client/internal/gallery"
	"github.com/Manikan-10/Party-Planners-Client/internal/review"
)

type contacts struct{ err error }

func (c contacts) List(ctx context.Context) ([]contact.Contact, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []contact.Contact{{ID: "c1", Name: "Ana"}}, nil
}

type bookings struct{}

func (bookings) List(ctx context.Context) ([]booking.Booking, error) {
	return []booking.Booking{
		{ID: "b1", Status: booking.StatusPending},
		{ID: "b2", Status: booking.StatusPending},
		{ID: "b3", Status: booking.StatusConfirmed},
	}, nil
}

type reviews struct{}

func (reviews) List(ctx context.Context) ([]review.Review, error) { return nil, nil }

func TestLoad(t *testing.T) {
	sum, err := NewService(contacts{}, bookings{}, reviews{}, gallery.NewState()).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, sum.Contacts, 1)
	assert.Len(t, sum.Bookings, 3)
	assert.NotNil(t, sum.Reviews)
	assert.Equal(t, 2, sum.BookingStatus[booking.StatusPending])
	assert.Equal(t, 1, sum.BookingStatus[booking.StatusConfirmed])
	assert.Len(t, sum.Gallery, len(category.All))
	assert.Zero(t, sum.GalleryTotal)
	assert.Nil(t, sum.LastSync)
}

func TestLoadFailure(t *testing.T) {
	_, err := NewService(contacts{err: errors.New("db down")}, bookings{}, reviews{}, gallery.NewState()).Load(context.Background())
	assert.ErrorContains(t, err, "load contacts")
}

func TestHandler(t *testing.T) {
	h := NewHandler(NewService(contacts{err: errors.New("db down")}, bookings{}, reviews{}, gallery.NewState()))
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	h = NewHandler(NewService(contacts{}, bookings{}, reviews{}, gallery.NewState()))
	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending":2`)
}
