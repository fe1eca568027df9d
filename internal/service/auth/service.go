package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims полезная нагрузка админского токена
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session результат успешного логина
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service сервис аутентификации администратора
// Единственная учётная запись задается конфигурацией; токены подписываются HS256
type Service struct {
	adminEmail    string
	adminPassword string
	secret        []byte
	tokenTTL      time.Duration
	logger        Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(adminEmail, adminPassword, jwtSecret string, tokenTTL time.Duration, logger Logger) *Service {
	return &Service{
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		secret:        []byte(jwtSecret),
		tokenTTL:      tokenTTL,
		logger:        logger,
	}
}

// Login проверяет учётные данные и выдает подписанный токен
// Сравнение выполняется за постоянное время
func (s *Service) Login(email, password string) (*Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1

	if !emailOK || !passwordOK {
		s.logger.Warn("Login: invalid credentials for email=%s", email)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.adminEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("Login: failed to sign token: %v", err)
		return nil, fmt.Errorf("%w: failed to sign token: %v", ErrInternal, err)
	}

	s.logger.Info("Login: admin session issued, expires at %s", expiresAt.Format(time.RFC3339))
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify проверяет подпись и срок действия токена
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Role != "admin" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
