package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/mailer"
	"github.com/Manikan-10/Party-Planners-Client/internal/middleware"
)

type fakeStore struct {
	mu      sync.Mutex
	rows    []Contact
	deletes int
}

func (f *fakeStore) Create(_ context.Context, c *Contact) (*Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *c
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now()
	f.rows = append([]Contact{out}, f.rows...)
	return &out, nil
}

func (f *fakeStore) List(context.Context) ([]Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Contact(nil), f.rows...), nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakeNotifier struct {
	sent []mailer.Inquiry
	err  error
}

func (f *fakeNotifier) NotifyInquiry(_ context.Context, in mailer.Inquiry) error {
	f.sent = append(f.sent, in)
	return f.err
}

func TestCreateValidates(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	tests := []struct {
		name  string
		in    Contact
		field string
	}{
		{"missing name", Contact{Email: "a@b.co", Message: "hi"}, "name"},
		{"bad email", Contact{Name: "Ana", Email: "ana@", Message: "hi"}, "email"},
		{"missing message", Contact{Name: "Ana", Email: "a@b.co", Message: "  "}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			var fe *form.Error
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
	assert.Empty(t, store.rows)
}

func TestCreateStoresAndNotifies(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := NewService(store, notifier)

	c, err := svc.Create(context.Background(), Contact{Name: " Ana ", Email: "ana@example.com", Message: "Hello"})
	require.NoError(t, err, "a failed notification must not fail the submission")
	assert.Equal(t, "Ana", c.Name)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ana@example.com", notifier.sent[0].Email)
}

func newRouter(svc *Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Post("/contacts", h.Create)
	r.Get("/admin/contacts", h.List)
	r.With(middleware.RequireConfirm(middleware.QueryConfirmer)).Delete("/admin/contacts/{id}", h.Delete)
	return r
}

func TestHandlers(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(NewService(store, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{"name":"Ana","email":"nope","message":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{"name":"Ana","email":"ana@example.com","message":"x"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := store.rows[0].ID

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/contacts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/contacts/"+id, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, store.deletes, "unconfirmed delete must not reach the store")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/contacts/not-a-uuid?confirm=true", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/contacts/"+id+"?confirm=true", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.rows)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/contacts/"+id+"?confirm=true", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
