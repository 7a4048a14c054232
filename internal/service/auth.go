package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invodash/invodash/internal/auth"
	"github.com/invodash/invodash/internal/form"
	"github.com/invodash/invodash/internal/metrics"
	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
)

// ErrInvalidCredentials covers every expected login failure: malformed
// credentials, unknown email, or wrong password. Callers must not be
// able to tell these apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the lookup capability the authenticator depends on.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService authenticates credential pairs against stored users.
type AuthService struct {
	users   UserStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		logger:  logger,
		metrics: recorder,
	}
}

// Authenticate validates the credential shape, looks up the user by
// email and verifies the password against the stored salted hash.
// Expected failures all map to ErrInvalidCredentials; infrastructure
// faults are returned as-is so the caller can distinguish them.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	creds, ferrs := form.ParseCredentials(map[string]string{
		"email":    email,
		"password": password,
	})
	if ferrs != nil {
		s.metrics.IncLoginFailure()
		s.logger.Info("login_rejected", "reason", "malformed_credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			s.logger.Info("login_rejected", "reason", "unknown_user")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	match, err := auth.VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		s.metrics.IncLoginFailure()
		s.logger.Info("login_rejected", "reason", "password_mismatch")
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLoginSuccess()
	s.logger.Info("login_succeeded", "user_id", user.ID)

	return user, nil
}
