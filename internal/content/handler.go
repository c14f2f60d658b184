package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

// ImageUploader publishes one image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, f media.File) (string, error)
}

// Handler holds HTTP handlers for the website content endpoints.
type Handler struct {
	svc      *Service
	uploader ImageUploader
	maxBytes int64
}

// NewHandler creates a new content Handler. uploader may be nil, in which
// case the about image endpoint reports that storage is unavailable.
func NewHandler(svc *Service, uploader ImageUploader, maxBytes int64) *Handler {
	return &Handler{svc: svc, uploader: uploader, maxBytes: maxBytes}
}

type aboutImageData struct {
	URL string `json:"url" example:"http://localhost:9000/site-assets/uploads/1718000000000-ab12cd.jpg"`
}

// Get godoc
//
//	@Summary		Website content
//	@Description	Returns the editable website content including the cached gallery lists. Empty when nothing was saved yet.
//	@Tags			content
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=Content}
//	@Failure		500	{object}	response.Envelope
//	@Router			/content [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Load(r.Context())
	if err != nil {
		logger.Errorf("content: load: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, c)
}

// Put godoc
//
//	@Summary		Replace website content
//	@Description	Overwrites the whole content record. Last writer wins. Emits galleryUpdated.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		Content	true	"Website content"
//	@Success		200		{object}	response.Envelope{data=Content}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/content [put]
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	var c Content
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if c.Gallery == nil {
		c.Gallery = Gallery{}
	}

	err := h.svc.Save(r.Context(), &c)
	if errors.Is(err, category.ErrUnknown) {
		response.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		logger.Errorf("content: save: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, c)
}

// Reset godoc
//
//	@Summary		Reset website content
//	@Description	Removes the stored content so the site shows its defaults. Requires confirm=true.
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/content [delete]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		logger.Errorf("content: reset: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]bool{"reset": true})
}

// UploadAboutImage godoc
//
//	@Summary		Upload about section image
//	@Description	Uploads an image (max 15 MB) and stores its URL as about.image.
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			image	formData	file	true	"Image file"
//	@Success		200		{object}	response.Envelope{data=aboutImageData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/admin/content/about-image [post]
func (h *Handler) UploadAboutImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		response.ServiceUnavailable(w, media.ErrNotConfigured.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}
	_, fh, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	f, closer, err := media.FromMultipart(fh)
	if err != nil {
		response.BadRequest(w, "cannot read image file")
		return
	}
	defer closer.Close()

	url, err := h.uploader.Upload(r.Context(), f)
	switch {
	case media.IsValidation(err):
		response.BadRequest(w, err.Error())
		return
	case errors.Is(err, media.ErrNotConfigured):
		response.ServiceUnavailable(w, err.Error())
		return
	case err != nil:
		logger.Errorf("content: about image: %v", err)
		response.BadGateway(w, "image upload failed")
		return
	}

	if err := h.svc.SetAboutImage(r.Context(), url); err != nil {
		logger.Errorf("content: save about image: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, aboutImageData{URL: url})
}
