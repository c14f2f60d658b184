package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T, store ObjectStore) (http.Handler, *State) {
	t.Helper()
	cache, _, _ := newCache(t, "")
	state := NewState()
	var lister Lister
	if store != nil {
		lister = store
	}
	s := NewSynchronizer(lister, cache, state)
	u := NewUploader(store, cache, state, s, 20<<20)
	h := NewHandler(state, s, u, cache)

	r := chi.NewRouter()
	r.Get("/gallery", h.List)
	r.Get("/gallery/{category}", h.Show)
	r.Put("/admin/gallery/{category}", h.SetCategory)
	r.Post("/admin/gallery/{category}/images", h.UploadImages)
	r.Post("/admin/gallery/sync", h.Sync)
	r.Get("/admin/gallery/report", h.Report)
	return r, state
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

func TestShowHandler(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryStorage("gallery-images", publicBase))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery/Travel", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var v View
	decode(t, rec, &v)
	assert.Equal(t, category.Travel, v.Category)
	assert.True(t, v.Empty)
	assert.Equal(t, Placeholder, v.Placeholder)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery/picnic", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandlerBeforeAndAfterSync(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryStorage("gallery-images", publicBase))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/gallery/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/gallery/sync", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var data syncData
	decode(t, rec, &data)
	assert.True(t, data.Ran)
	require.NotNil(t, data.Report)
	assert.Equal(t, SourceLocal, data.Report.Source)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/gallery/report", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetCategoryHandler(t *testing.T) {
	router, state := newTestRouter(t, nil)

	body := strings.NewReader(`{"urls":["http://cdn.test/1.jpg","http://cdn.test/1.jpg","http://cdn.test/2.jpg"]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin/gallery/engagement", body))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"http://cdn.test/1.jpg", "http://cdn.test/2.jpg"}, urls(state.Images(category.Engagement)))
}

func TestUploadImagesHandler(t *testing.T) {
	store := storage.NewMemoryStorage("gallery-images", publicBase)
	router, state := newTestRouter(t, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	addPart := func(name, contentType string, data []byte) {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	addPart("party.png", "image/png", pngHeader)
	addPart("notes.txt", "text/plain", []byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/gallery/birthday/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res BatchResult
	decode(t, rec, &res)
	assert.Len(t, res.Uploaded, 1)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "notes.txt", res.Failed[0].Name)
	assert.Equal(t, int64(1), store.UploadCalls())
	assert.Len(t, state.Images(category.Birthday), 1)
}

func TestUploadImagesHandlerWithoutStorage(t *testing.T) {
	cache, _, _ := newCache(t, "")
	state := NewState()
	s := NewSynchronizer(nil, cache, state)
	h := NewHandler(state, s, NewUploader(nil, cache, state, s, 20<<20), cache)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("images", "a.png")
	require.NoError(t, err)
	_, _ = part.Write(pngHeader)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/gallery/wedding/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("category", "wedding")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.UploadImages(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type failingCacheWriter struct{}

func (failingCacheWriter) AppendGalleryURLs(context.Context, category.Category, []string) error {
	return errors.New("database unavailable")
}

func TestUploadImagesHandlerReportsLandedFilesWhenCacheFails(t *testing.T) {
	store := storage.NewMemoryStorage("gallery-images", publicBase)
	cache, _, _ := newCache(t, "")
	state := NewState()
	s := NewSynchronizer(store, cache, state)
	h := NewHandler(state, s, NewUploader(store, failingCacheWriter{}, state, s, 20<<20), cache)

	r := chi.NewRouter()
	r.Post("/admin/gallery/{category}/images", h.UploadImages)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="images"; filename="cake.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write(pngHeader)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/gallery/birthday/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var res BatchResult
	env := decode(t, rec, &res)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
	require.Len(t, res.Uploaded, 1)
	assert.Equal(t, category.Birthday, res.Category)
	assert.Equal(t, int64(1), store.UploadCalls())
}
