package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Manikan-10/Party-Planners-Client/internal/form"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

// Handler holds HTTP handlers for contact endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new contact Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name    string `json:"name"    example:"Ananya Rao"`
	Email   string `json:"email"   example:"ananya@example.com"`
	Phone   string `json:"phone"   example:"+91 98765 43210"`
	Subject string `json:"subject" example:"Wedding photography"`
	Message string `json:"message" example:"Are you available on 12 December?"`
}

// Create godoc
//
//	@Summary		Send an inquiry
//	@Description	Stores a contact form submission and emails the owner. Rate limited per client.
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createRequest	true	"Inquiry"
//	@Success		201		{object}	response.Envelope{data=Contact}
//	@Failure		400		{object}	response.Envelope
//	@Failure		429		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/contacts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	c, err := h.svc.Create(r.Context(), Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if form.IsError(err) {
		response.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		logger.Errorf("contact: create: %v", err)
		response.InternalError(w)
		return
	}
	response.Created(w, c)
}

// List godoc
//
//	@Summary		List inquiries
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Contact}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/contacts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		logger.Errorf("contact: list: %v", err)
		response.InternalError(w)
		return
	}
	if list == nil {
		list = []Contact{}
	}
	response.OK(w, list)
}

// Delete godoc
//
//	@Summary		Delete an inquiry
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Contact id"
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/admin/contacts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(w, "invalid contact id")
		return
	}

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "contact not found")
		return
	}
	if err != nil {
		logger.Errorf("contact: delete %s: %v", id, err)
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"deleted": id})
}
