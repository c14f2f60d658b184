package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	ID       string `json:"id"       example:"admin"`
	Password string `json:"password" example:"party123"`
}

type loginData struct {
	Token     string `json:"token"     example:"eyJhbGci..."`
	ExpiresAt string `json:"expiresAt" example:"2026-02-27T14:48:34Z"`
	AdminID   string `json:"adminId"   example:"admin"`
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Checks the admin id and password and returns a Bearer token valid for 12 hours. Logging out is dropping the token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Admin credentials"
//	@Success		200		{object}	response.Envelope{data=loginData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || req.Password == "" {
		response.BadRequest(w, "id and password are required")
		return
	}

	session, err := h.svc.Login(req.ID, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "invalid credentials")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, session)
}
