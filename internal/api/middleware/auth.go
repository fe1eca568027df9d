package middleware

import (
	"context"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	authHandlers "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/auth"
	authService "github.com/v1malina/TCS-ScheduleService/internal/service/auth"
)

type claimsKey struct{}

const msgUnauthorized = "требуется аутентификация"

// AuthVerifier проверяет токен админской сессии
type AuthVerifier interface {
	Verify(tokenString string) (*authService.Claims, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// ClaimsFromContext возвращает claims, положенные RequireAdmin
func ClaimsFromContext(ctx context.Context) (*authService.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authService.Claims)
	return claims, ok
}

// RequireAdmin пропускает только запросы с валидным админским токеном
// Токен берется из httpOnly-куки или заголовка Authorization: Bearer
func RequireAdmin(verifier AuthVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := authHandlers.TokenFromRequest(r)
			if token == "" {
				logger.Warn("%s %s - Missing auth token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("%s %s - Invalid auth token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
