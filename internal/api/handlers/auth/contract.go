package auth

import (
	authService "github.com/v1malina/TCS-ScheduleService/internal/service/auth"
)

type AuthService interface {
	Login(email, password string) (*authService.Session, error)
	Verify(tokenString string) (*authService.Claims, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
