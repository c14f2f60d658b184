package middleware

import (
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"github.com/Manikan-10/Party-Planners-Client/internal/response"
)

// Confirmer decides whether a destructive request was explicitly confirmed.
type Confirmer interface {
	Confirmed(r *http.Request) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(r *http.Request) bool

func (f ConfirmFunc) Confirmed(r *http.Request) bool { return f(r) }

// QueryConfirmer accepts a request carrying ?confirm=true.
var QueryConfirmer = ConfirmFunc(func(r *http.Request) bool {
	return cast.ToBool(strings.TrimSpace(r.URL.Query().Get("confirm")))
})

// RequireConfirm rejects unconfirmed requests with 409 before they reach the handler.
func RequireConfirm(c Confirmer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !c.Confirmed(r) {
				response.Conflict(w, "confirmation required: repeat the request with confirm=true")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
