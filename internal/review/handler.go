package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

// Handler holds HTTP handlers for review endpoints.
type Handler struct {
	svc      *Service
	maxBytes int64
}

// NewHandler creates a new review Handler.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

// List godoc
//
//	@Summary		List reviews
//	@Description	Returns customer reviews, newest first.
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Review}
//	@Failure		500	{object}	response.Envelope
//	@Router			/reviews [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		logger.Errorf("review: list: %v", err)
		response.InternalError(w)
		return
	}
	if list == nil {
		list = []Review{}
	}
	response.OK(w, list)
}

// Create godoc
//
//	@Summary		Add a review
//	@Description	Stores a review. Accepts JSON, or multipart/form-data with the same field names plus an optional photo file. rating defaults to 5.
//	@Tags			admin
//	@Accept			json,mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		Review	true	"Review"
//	@Param			photo	formData	file	false	"Reviewer photo"
//	@Success		201		{object}	response.Envelope{data=Review}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/admin/reviews [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		rv    Review
		photo *media.File
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			response.BadRequest(w, "invalid multipart form")
			return
		}
		var err error
		if rv, err = fromForm(r); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		if _, fh, err := r.FormFile("photo"); err == nil {
			f, closer, err := media.FromMultipart(fh)
			if err != nil {
				response.BadRequest(w, "cannot read photo")
				return
			}
			defer closer.Close()
			photo = &f
		}
	} else if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	saved, err := h.svc.Create(r.Context(), rv, photo)
	switch {
	case form.IsError(err), media.IsValidation(err):
		response.BadRequest(w, err.Error())
		return
	case errors.Is(err, media.ErrNotConfigured):
		response.ServiceUnavailable(w, err.Error())
		return
	case err != nil:
		logger.Errorf("review: create: %v", err)
		response.BadGateway(w, "review could not be saved")
		return
	}
	response.Created(w, saved)
}

func fromForm(r *http.Request) (Review, error) {
	rv := Review{
		Name:       r.FormValue("name"),
		Location:   r.FormValue("location"),
		ReviewText: r.FormValue("reviewText"),
		ImageURL1:  r.FormValue("imageUrl1"),
		ImageURL2:  r.FormValue("imageUrl2"),
		ImageURL3:  r.FormValue("imageUrl3"),
	}
	if raw := strings.TrimSpace(r.FormValue("rating")); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil {
			return rv, &form.Error{Field: "rating", Message: "must be a number"}
		}
		rv.Rating = n
	}
	return rv, nil
}

// Delete godoc
//
//	@Summary		Delete a review
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Review id"
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/admin/reviews/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(w, "invalid review id")
		return
	}

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "review not found")
		return
	}
	if err != nil {
		logger.Errorf("review: delete %s: %v", id, err)
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"deleted": id})
}
