package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/invodash/invodash/internal/auth"
	"github.com/invodash/invodash/internal/handler/dto"
	"github.com/invodash/invodash/internal/service"
)

// Login failure messages. Credential failures and infrastructure
// faults must stay distinguishable, but nothing more specific leaks.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgSomethingWentWrong = "Something went wrong."
)

// DashboardPath is where a successful login navigates.
const DashboardPath = "/dashboard"

// AuthHandler handles credential login.
type AuthHandler struct {
	svc      *service.AuthService
	sessions *auth.SessionManager
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions *auth.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles POST /api/v1/auth/login.
// Accepts form-encoded fields: email, password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields := formFields(r)

	user, err := h.svc.Authenticate(r.Context(), fields["email"], fields["password"])
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
				Error: MsgInvalidCredentials,
				Code:  "INVALID_CREDENTIALS",
			})
			return
		}

		// Infrastructure fault - not an auth decision.
		h.logger.Error("login_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: MsgSomethingWentWrong,
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.logger.Error("login_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: MsgSomethingWentWrong,
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.sessions.TTL().Seconds()),
		Next:      DashboardPath,
	})
}
