package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	authService "github.com/v1malina/TCS-ScheduleService/internal/service/auth"
)

// CookieName имя httpOnly-куки с админским токеном
const CookieName = "admin_token"

const (
	msgInvalidBody        = "некорректное тело запроса"
	msgInvalidCredentials = "неверный email или пароль"
	msgUnauthorized       = "требуется аутентификация"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// TokenFromRequest извлекает токен из куки или заголовка Authorization
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Login POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	session, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/login - Invalid credentials for %s", req.Email)
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		default:
			h.logger.Error("POST /auth/login - Login failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("POST /auth/login - Admin session issued until %s", session.ExpiresAt.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Me GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	if token == "" {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	claims, err := h.service.Verify(token)
	if err != nil {
		h.logger.Warn("GET /auth/me - Invalid token: %v", err)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, MeResponse{
		Email: claims.Subject,
		Role:  claims.Role,
	})
}

// Logout POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("POST /auth/logout - Session cookie cleared")
	handlers.RespondNoContent(w)
}
