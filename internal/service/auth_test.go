package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/security"
)

func newAuth(t *testing.T) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("ganpati"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(string(hash), security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour))
}

func TestAuthService_Login(t *testing.T) {
	auth := newAuth(t)

	token, expires, err := auth.Login(context.Background(), "ganpati")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expires.After(time.Now()))
	assert.NoError(t, auth.Authorize(token))

	_, _, err = auth.Login(context.Background(), "wrong")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, _, err = auth.Login(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestAuthService_Authorize(t *testing.T) {
	auth := newAuth(t)

	assert.True(t, errors.Is(auth.Authorize(""), domain.ErrUnauthorized))
	assert.True(t, errors.Is(auth.Authorize("garbage"), domain.ErrUnauthorized))
}

func TestHashPassphrase(t *testing.T) {
	hash, err := HashPassphrase("bappa")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("bappa")))

	_, err = HashPassphrase("")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
