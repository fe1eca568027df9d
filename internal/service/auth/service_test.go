package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService() *Service {
	return NewService("admin@school.ru", "s3cret", "test-jwt-secret", time.Hour, nopLogger{})
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService()

	session, err := svc.Login("admin@school.ru", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.Login("admin@school.ru", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Login("intruder@school.ru", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_RoundTrip(t *testing.T) {
	svc := newTestService()

	session, err := svc.Login("admin@school.ru", "s3cret")
	require.NoError(t, err)

	claims, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin@school.ru", claims.Subject)
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewService("admin@school.ru", "s3cret", "another-secret", time.Hour, nopLogger{})

	session, err := other.Login("admin@school.ru", "s3cret")
	require.NoError(t, err)

	_, err = svc.Verify(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService()

	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin@school.ru",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-jwt-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
