package booking

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/mailer"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/middleware"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeStore struct {
	rows    []Booking
	deletes int
}

func (f *fakeStore) Create(_ context.Context, b *Booking) (*Booking, error) {
	out := *b
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now()
	f.rows = append([]Booking{out}, f.rows...)
	return &out, nil
}

func (f *fakeStore) List(context.Context) ([]Booking, error) { return f.rows, nil }

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status Status) (*Booking, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			out := f.rows[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deletes++
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakePhotos struct {
	calls int
	err   error
}

func (f *fakePhotos) Upload(context.Context, media.File) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "http://cdn.test/home-photos/uploads/1-abc.png", nil
}

type fakeNotifier struct{ sent []mailer.BookingNotice }

func (f *fakeNotifier) NotifyBooking(_ context.Context, bn mailer.BookingNotice) error {
	f.sent = append(f.sent, bn)
	return nil
}

func newService(store Store, photos PhotoUploader) *Service {
	svc := NewService(store, photos, nil, 15<<20)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local) }
	return svc
}

func validBooking() Booking {
	return Booking{
		EventTitle:    "Griha Pravesh",
		EventDate:     "2026-11-02",
		EventTime:     "09:30",
		Address:       "12 Lake Road",
		GateCode:      "12#*",
		FamilyMembers: "Rao family, 8 people",
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Booking)
		field  string
	}{
		{"missing title", func(b *Booking) { b.EventTitle = " " }, "eventTitle"},
		{"missing family", func(b *Booking) { b.FamilyMembers = "" }, "familyMembers"},
		{"bad date", func(b *Booking) { b.EventDate = "02/11/2026" }, "eventDate"},
		{"past date", func(b *Booking) { b.EventDate = "2026-10-18" }, "eventDate"},
		{"bad time", func(b *Booking) { b.EventTime = "half past nine" }, "eventTime"},
		{"bad gate code", func(b *Booking) { b.GateCode = "12-34" }, "gateCode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			b := validBooking()
			tt.mutate(&b)

			_, err := newService(store, nil).Create(context.Background(), b, nil)
			var fe *form.Error
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
			assert.Empty(t, store.rows)
		})
	}
}

func TestCreateTodayIsAllowed(t *testing.T) {
	b := validBooking()
	b.EventDate = "2026-10-19"
	created, err := newService(&fakeStore{}, nil).Create(context.Background(), b, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Booking.Status)
}

func TestCreateIgnoresClientControlledFields(t *testing.T) {
	b := validBooking()
	b.Status = StatusCompleted
	b.HomePhotoURL = "http://evil.test/x.jpg"

	created, err := newService(&fakeStore{}, nil).Create(context.Background(), b, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Booking.Status)
	assert.Empty(t, created.Booking.HomePhotoURL)
}

func TestCreateWithPhoto(t *testing.T) {
	photos := &fakePhotos{}
	notifier := &fakeNotifier{}
	svc := newService(&fakeStore{}, photos)
	svc.notifier = notifier

	photo := &media.File{Name: "home.png", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
	created, err := svc.Create(context.Background(), validBooking(), photo)
	require.NoError(t, err)

	assert.Equal(t, "http://cdn.test/home-photos/uploads/1-abc.png", created.Booking.HomePhotoURL)
	assert.Empty(t, created.PhotoWarning)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, created.Booking.HomePhotoURL, notifier.sent[0].HomePhotoURL)
}

func TestCreatePhotoUploadFailureKeepsBooking(t *testing.T) {
	store := &fakeStore{}
	photos := &fakePhotos{err: errors.New("bucket unreachable")}

	photo := &media.File{Name: "home.png", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
	created, err := newService(store, photos).Create(context.Background(), validBooking(), photo)
	require.NoError(t, err)

	assert.NotEmpty(t, created.PhotoWarning)
	assert.Empty(t, created.Booking.HomePhotoURL)
	assert.Len(t, store.rows, 1)
}

func TestCreateRejectsInvalidPhotoBeforeUpload(t *testing.T) {
	store := &fakeStore{}
	photos := &fakePhotos{}

	photo := &media.File{Name: "home.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("%PDF-1.7..")}
	_, err := newService(store, photos).Create(context.Background(), validBooking(), photo)

	assert.True(t, media.IsValidation(err))
	assert.Zero(t, photos.calls)
	assert.Empty(t, store.rows)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	_, err := newService(&fakeStore{}, nil).UpdateStatus(context.Background(), uuid.NewString(), "archived")
	assert.True(t, form.IsError(err))
}

func newRouter(svc *Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Post("/bookings", h.Create)
	r.Get("/admin/bookings", h.List)
	r.Patch("/admin/bookings/{id}/status", h.UpdateStatus)
	r.With(middleware.RequireConfirm(middleware.QueryConfirmer)).Delete("/admin/bookings/{id}", h.Delete)
	return r
}

func TestHandlersMultipartAndStatus(t *testing.T) {
	store := &fakeStore{}
	photos := &fakePhotos{}
	router := newRouter(newService(store, photos))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	b := validBooking()
	for k, v := range map[string]string{
		"eventTitle": b.EventTitle, "eventDate": b.EventDate, "eventTime": b.EventTime,
		"address": b.Address, "familyMembers": b.FamilyMembers, "gateCode": b.GateCode,
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="homePhoto"; filename="home.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write(pngHeader)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/bookings", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, store.rows, 1)
	assert.Equal(t, 1, photos.calls)
	id := store.rows[0].ID

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/bookings/"+id+"/status", strings.NewReader(`{"status":"confirmed"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusConfirmed, store.rows[0].Status)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/bookings/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"confirmed"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/bookings/"+id, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, store.deletes)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/bookings/"+id+"?confirm=true", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.rows)
}

func TestCreateHandlerJSONValidation(t *testing.T) {
	router := newRouter(newService(&fakeStore{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"eventTitle":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
