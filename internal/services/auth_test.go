package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mysticwriter-backend/internal/platform/ctxutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthServiceAcceptsValidToken(t *testing.T) {
	svc, err := NewAuthService(testLog(), AuthConfig{JWTSecret: testSecret, Issuer: "mysticwriter"})
	require.NoError(t, err)

	userID := uuid.New()
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    "mysticwriter",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	if got := ctxutil.UserID(ctx); got != userID {
		t.Fatalf("user id: want=%q got=%q", userID, got)
	}
}

func TestAuthServiceRejects(t *testing.T) {
	svc, err := NewAuthService(testLog(), AuthConfig{JWTSecret: testSecret, Issuer: "mysticwriter"})
	require.NoError(t, err)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "expired", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: uuid.NewString(), Issuer: "mysticwriter", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})},
		{name: "no expiry", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: uuid.NewString(), Issuer: "mysticwriter",
		})},
		{name: "wrong secret", token: signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{
			Subject: uuid.NewString(), Issuer: "mysticwriter", ExpiresAt: future,
		})},
		{name: "wrong algorithm", token: signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{
			Subject: uuid.NewString(), Issuer: "mysticwriter", ExpiresAt: future,
		})},
		{name: "wrong issuer", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: uuid.NewString(), Issuer: "elsewhere", ExpiresAt: future,
		})},
		{name: "bad subject", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: "user-1", Issuer: "mysticwriter", ExpiresAt: future,
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, err := svc.SetContextFromToken(context.Background(), tc.token)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrUnauthorized), "err=%v", err)
			require.Equal(t, uuid.Nil, ctxutil.UserID(ctx))
		})
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(testLog(), AuthConfig{JWTSecret: "  "})
	require.Error(t, err)
}
