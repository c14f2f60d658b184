package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/content"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

const maxBatchFiles = 20

// CategoryEditor replaces the cached URL list of one category.
type CategoryEditor interface {
	SetGalleryCategory(ctx context.Context, c category.Category, urls []string) (*content.Content, error)
}

// Handler holds HTTP handlers for gallery endpoints.
type Handler struct {
	state    *State
	sync     *Synchronizer
	uploader *Uploader
	editor   CategoryEditor
}

// NewHandler creates a new gallery Handler.
func NewHandler(state *State, sync *Synchronizer, uploader *Uploader, editor CategoryEditor) *Handler {
	return &Handler{state: state, sync: sync, uploader: uploader, editor: editor}
}

type galleryData struct {
	Default    category.Category   `json:"default" example:"wedding"`
	Categories []category.Category `json:"categories"`
	Images     Index               `json:"images"`
}

type setCategoryRequest struct {
	URLs []string `json:"urls"`
}

type syncData struct {
	Ran    bool    `json:"ran" example:"true"`
	Total  int     `json:"total" example:"42"`
	Report *Report `json:"report,omitempty"`
}

// List godoc
//
//	@Summary		Whole gallery
//	@Description	Returns the in-memory gallery index for every category.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=galleryData}
//	@Router			/gallery [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, galleryData{
		Default:    category.Default,
		Categories: category.All,
		Images:     h.state.Snapshot(),
	})
}

// Show godoc
//
//	@Summary		One gallery category
//	@Description	Returns every image indexed under the category, or a placeholder text when there are none. Never touches object storage.
//	@Tags			gallery
//	@Produce		json
//	@Param			category	path		string	true	"Category"	Enums(wedding, engagement, anniversary, housewarming, birthday, family, travel, corporate)
//	@Success		200			{object}	response.Envelope{data=View}
//	@Failure		404			{object}	response.Envelope
//	@Router			/gallery/{category} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	c, err := category.Parse(chi.URLParam(r, "category"))
	if err != nil {
		response.NotFound(w, "unknown gallery category")
		return
	}
	v, err := h.state.Show(c)
	if err != nil {
		response.NotFound(w, "unknown gallery category")
		return
	}
	response.OK(w, v)
}

// SetCategory godoc
//
//	@Summary		Replace a category's cached URLs
//	@Description	Overwrites the cached URL list of one category and re-synchronizes the gallery.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			category	path		string				true	"Category"
//	@Param			request		body		setCategoryRequest	true	"Ordered image URLs"
//	@Success		200			{object}	response.Envelope{data=View}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/admin/gallery/{category} [put]
func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := category.Parse(chi.URLParam(r, "category"))
	if err != nil {
		response.NotFound(w, "unknown gallery category")
		return
	}
	var req setCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if _, err := h.editor.SetGalleryCategory(r.Context(), c, req.URLs); err != nil {
		logger.Errorf("gallery: set %s: %v", c, err)
		response.InternalError(w)
		return
	}
	h.sync.Synchronize(r.Context())

	v, _ := h.state.Show(c)
	response.OK(w, v)
}

// UploadImages godoc
//
//	@Summary		Upload images to a category
//	@Description	Uploads up to 20 images (max 20 MB each) as "{category}_{millis}_{random}.{ext}". Invalid files are reported in failed; repeated files count as duplicates.
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			category	path		string	true	"Category"
//	@Param			images		formData	file	true	"Image files"
//	@Success		200			{object}	response.Envelope{data=BatchResult}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope{data=BatchResult}
//	@Failure		503			{object}	response.Envelope
//	@Router			/admin/gallery/{category}/images [post]
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	c, err := category.Parse(chi.URLParam(r, "category"))
	if err != nil {
		response.NotFound(w, "unknown gallery category")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBatchFiles)*h.uploader.maxBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		response.BadRequest(w, "at least one image is required")
		return
	}
	if len(headers) > maxBatchFiles {
		response.BadRequest(w, "too many files in one upload")
		return
	}

	files := make([]media.File, 0, len(headers))
	var closers []io.Closer
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()
	for _, fh := range headers {
		f, cl, err := media.FromMultipart(fh)
		if err != nil {
			response.BadRequest(w, "cannot read "+fh.Filename)
			return
		}
		closers = append(closers, cl)
		files = append(files, f)
	}

	res, err := h.uploader.Upload(r.Context(), c, files)
	switch {
	case errors.Is(err, media.ErrNotConfigured):
		response.ServiceUnavailable(w, err.Error())
		return
	case err != nil && res == nil:
		logger.Errorf("gallery: upload to %s: %v", c, err)
		response.InternalError(w)
		return
	case err != nil:
		logger.Errorf("gallery: upload to %s: %v", c, err)
		response.JSON(w, http.StatusInternalServerError, response.Envelope{
			Success: false,
			Data:    res,
			Error:   "images uploaded but the gallery could not be saved",
		})
		return
	}
	response.OK(w, res)
}

// Sync godoc
//
//	@Summary		Synchronize gallery
//	@Description	Runs a synchronization pass. ran is false when a pass was already running.
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=syncData}
//	@Router			/admin/gallery/sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ix, ran := h.sync.Synchronize(r.Context())
	response.OK(w, syncData{Ran: ran, Total: ix.Total(), Report: h.state.Report()})
}

// Report godoc
//
//	@Summary		Last synchronization report
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=Report}
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/gallery/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rep := h.state.Report()
	if rep == nil {
		response.NotFound(w, "no synchronization has run yet")
		return
	}
	response.OK(w, rep)
}
