package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid passphrase")

type authService struct {
	passphraseHash []byte
	tokens         security.TokenManager
}

func NewAuthService(passphraseHash string, tokens security.TokenManager) AuthService {
	return &authService{
		passphraseHash: []byte(passphraseHash),
		tokens:         tokens,
	}
}

// Login exchanges the shared moderator passphrase for a bearer token.
func (s *authService) Login(ctx context.Context, passphrase string) (string, time.Time, error) {
	if passphrase == "" {
		return "", time.Time{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)); err != nil {
		logger.Warn("Admin login rejected")
		return "", time.Time{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, ErrInvalidCredentials)
	}

	token, expires, err := s.tokens.GenerateAdminToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	logger.Info("Admin login succeeded", "expiresAt", expires)
	return token, expires, nil
}

func (s *authService) Authorize(token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}
	if _, err := s.tokens.ValidateToken(token); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return nil
}

// HashPassphrase produces the bcrypt hash stored in configuration.
func HashPassphrase(passphrase string) (string, error) {
	if passphrase == "" {
		return "", domain.NewValidationError("passphrase is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
