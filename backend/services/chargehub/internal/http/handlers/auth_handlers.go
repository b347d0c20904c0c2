package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/http/middleware"
	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/service"
)

// AuthHandlers serves the sign up, sign in and sign out endpoints.
type AuthHandlers struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(auth *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

type sessionInfo struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		Name            string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.ConfirmPassword, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailInUse):
			writeError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrEmailRequired):
			writeError(w, http.StatusBadRequest, "a valid email is required")
		case isPasswordRule(err):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error": strings.TrimPrefix(err.Error(), "auth: "),
				"rules": service.PasswordChecklist(req.Password),
			})
		default:
			h.logger.Error("signup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, claims, user, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token     string       `json:"token"`
		TokenType string       `json:"token_type"`
		User      *models.User `json:"user"`
		Session   sessionInfo  `json:"session"`
	}{
		Token:     token,
		TokenType: "Bearer",
		User:      user,
		Session:   sessionInfo{ID: claims.SessionID(), ExpiresAt: claims.ExpiresAtTime()},
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.auth.SignOut(r.Context(), claims); err != nil {
		h.logger.Error("logout failed", zap.String("session_id", claims.SessionID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		h.logger.Error("load current user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		User    *models.User `json:"user"`
		Session sessionInfo  `json:"session"`
	}{
		User:    user,
		Session: sessionInfo{ID: claims.SessionID(), ExpiresAt: claims.ExpiresAtTime()},
	})
}

func isPasswordRule(err error) bool {
	for _, rule := range []error{
		service.ErrPasswordTooShort,
		service.ErrPasswordNoUpper,
		service.ErrPasswordNoLower,
		service.ErrPasswordNoDigit,
		service.ErrPasswordMismatch,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}
