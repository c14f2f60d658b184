package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manikan-10/Party-Planners-Client/internal/config"
	"github.com/Manikan-10/Party-Planners-Client/internal/middleware"
)

func testConfig() *config.Config {
	return &config.Config{AdminID: "admin", AdminPassword: "party123", JWTSecret: "s3cret"}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	svc := NewService(testConfig())

	_, err := svc.Login("admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("root", "party123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginTokenPassesRequireAdmin(t *testing.T) {
	cfg := testConfig()
	svc := NewService(cfg)
	fixed := time.Now()
	svc.now = func() time.Time { return fixed }

	session, err := svc.Login("admin", "party123")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(12*time.Hour).UTC(), session.ExpiresAt)

	protected := middleware.RequireAdmin(cfg.JWTSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(middleware.AdminID(r.Context())))
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestLoginHandler(t *testing.T) {
	h := NewHandler(NewService(testConfig()))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"missing password", `{"id":"admin"}`, http.StatusBadRequest},
		{"wrong password", `{"id":"admin","password":"x"}`, http.StatusUnauthorized},
		{"ok", `{"id":" admin ","password":"party123"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusOK {
				var env struct {
					Data loginData `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
				assert.NotEmpty(t, env.Data.Token)
				assert.Equal(t, "admin", env.Data.AdminID)
			}
		})
	}
}
