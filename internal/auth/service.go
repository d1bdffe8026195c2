package auth

import (
	"crypto/subtle"
	"errors"

	"nbserve/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Service validates access tokens and login passwords against the configured
// credentials. The server uses a single shared token rather than per-user
// accounts.
type Service struct {
	cfg config.Auth
}

func NewService(cfg config.Auth) *Service {
	return &Service{cfg: cfg}
}

// Enabled reports whether requests must authenticate.
func (s *Service) Enabled() bool {
	return s.cfg.Mode != config.AuthModeNone
}

// ValidateToken checks an access token in constant time.
func (s *Service) ValidateToken(token string) error {
	if s.cfg.Token == "" || token == "" {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// Authenticate verifies a login password. When no password hash is configured
// the token itself is accepted as the password.
func (s *Service) Authenticate(password string) error {
	if s.cfg.PasswordHash != "" {
		return CheckPassword(password, s.cfg.PasswordHash)
	}
	if err := s.ValidateToken(password); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
