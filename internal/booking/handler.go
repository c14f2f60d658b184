package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/media"
	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

// Handler holds HTTP handlers for booking endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new booking Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type statusRequest struct {
	Status Status `json:"status" example:"confirmed"`
}

// Create godoc
//
//	@Summary		Request a booking
//	@Description	Stores a booking request. Accepts JSON, or multipart/form-data with the same field names plus an optional homePhoto file (max 15 MB). A failed photo upload does not fail the booking.
//	@Tags			bookings
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			request		body		Booking	true	"Booking"
//	@Param			homePhoto	formData	file	false	"Photo of the home"
//	@Success		201			{object}	response.Envelope{data=Created}
//	@Failure		400			{object}	response.Envelope
//	@Failure		429			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/bookings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		b     Booking
		photo *media.File
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.svc.photoMaxBytes+1<<20)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			response.BadRequest(w, "invalid multipart form")
			return
		}
		b = fromForm(r)
		if _, fh, err := r.FormFile("homePhoto"); err == nil {
			f, closer, err := media.FromMultipart(fh)
			if err != nil {
				response.BadRequest(w, "cannot read home photo")
				return
			}
			defer closer.Close()
			photo = &f
		}
	} else if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), b, photo)
	switch {
	case form.IsError(err), media.IsValidation(err):
		response.BadRequest(w, err.Error())
		return
	case err != nil:
		logger.Errorf("booking: create: %v", err)
		response.InternalError(w)
		return
	}
	response.Created(w, created)
}

func fromForm(r *http.Request) Booking {
	return Booking{
		EventTitle:       r.FormValue("eventTitle"),
		EventDate:        r.FormValue("eventDate"),
		EventTime:        r.FormValue("eventTime"),
		Address:          r.FormValue("address"),
		HomeName:         r.FormValue("homeName"),
		GateCode:         r.FormValue("gateCode"),
		WifiUsername:     r.FormValue("wifiUsername"),
		WifiPassword:     r.FormValue("wifiPassword"),
		FamilyMembers:    r.FormValue("familyMembers"),
		ComplimentsNames: r.FormValue("complimentsNames"),
		PanditDetails:    r.FormValue("panditDetails"),
		Highlights:       r.FormValue("highlights"),
		SpecialNeeds:     r.FormValue("specialNeeds"),
	}
}

// List godoc
//
//	@Summary		List bookings
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Booking}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/bookings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		logger.Errorf("booking: list: %v", err)
		response.InternalError(w)
		return
	}
	if list == nil {
		list = []Booking{}
	}
	response.OK(w, list)
}

// UpdateStatus godoc
//
//	@Summary		Change booking status
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Booking id"
//	@Param			request	body		statusRequest	true	"New status"
//	@Success		200		{object}	response.Envelope{data=Booking}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/admin/bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}
	var req statusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	b, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case form.IsError(err):
		response.BadRequest(w, err.Error())
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "booking not found")
		return
	case err != nil:
		logger.Errorf("booking: update status %s: %v", id, err)
		response.InternalError(w)
		return
	}
	response.OK(w, b)
}

// Delete godoc
//
//	@Summary		Delete a booking
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Booking id"
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/admin/bookings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "booking not found")
		return
	}
	if err != nil {
		logger.Errorf("booking: delete %s: %v", id, err)
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"deleted": id})
}
