// Package auth signs the site administrator in with the static credentials
// from configuration and issues the Bearer token used by the admin routes.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Manikan-10/Party-Planners-Client/internal/config"
	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
	"github.com/Manikan-10/Party-Planners-Client/internal/middleware"
)

const tokenTTL = 12 * time.Hour

// ErrInvalidCredentials is returned when the id or password does not match.
var ErrInvalidCredentials = errors.New("invalid admin id or password")

// Session is a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	AdminID   string    `json:"adminId"`
}

// Service checks admin credentials. The comparison is plain text; it keeps
// visitors out of the dashboard and is not meant to be more than that.
type Service struct {
	cfg *config.Config
	now func() time.Time
}

// NewService creates a new auth Service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg, now: time.Now}
}

// Login compares id and password with the configured admin credentials and
// issues a signed token on success.
func (s *Service) Login(id, password string) (*Session, error) {
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(s.cfg.AdminID)) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !idOK || !pwOK {
		logger.Warnf("auth: failed admin login for %q", id)
		return nil, ErrInvalidCredentials
	}

	expires := s.now().Add(tokenTTL)
	token, err := s.issueToken(id, expires)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	logger.Infof("auth: admin %q signed in", id)
	return &Session{Token: token, ExpiresAt: expires.UTC(), AdminID: id}, nil
}

// issueToken creates a signed JWT for the admin.
func (s *Service) issueToken(adminID string, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  adminID,
		"role": middleware.AdminRole,
		"iat":  s.now().Unix(),
		"exp":  expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
