package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/jwt"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/repository"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

type TokenService struct {
	log        *slog.Logger
	repo       repository.TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(
	log *slog.Logger,
	repo repository.TokenRepository,
	secret string,
	accessTTL, refreshTTL time.Duration,
) *TokenService {
	return &TokenService{
		log:        log,
		repo:       repo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokens issues an access/refresh pair and stores the refresh token
// under the admin email.
func (s *TokenService) GenerateTokens(ctx context.Context, admin models.Admin) (*models.TokenPair, error) {
	const op = "token_service.GenerateTokens"

	accessToken, err := jwt.NewToken(admin, jwt.KindAccess, s.accessTTL, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := jwt.NewToken(admin, jwt.KindRefresh, s.refreshTTL, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, admin.Email, refreshToken, s.refreshTTL); err != nil {
		s.log.Error("failed to store refresh token", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens consumes a stored refresh token and issues a new pair.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "token_service.RefreshTokens"

	claims, err := jwt.Parse(refreshToken, jwt.KindRefresh, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	exists, err := s.repo.GetRefreshToken(ctx, claims.Email, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenNotInStorage)
	}

	if err := s.repo.DeleteRefreshToken(ctx, claims.Email, refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GenerateTokens(ctx, models.Admin{Email: claims.Email, Name: claims.Name})
}

// ValidateAccess returns the admin carried by a valid access token.
func (s *TokenService) ValidateAccess(accessToken string) (*models.Admin, error) {
	const op = "token_service.ValidateAccess"

	claims, err := jwt.Parse(accessToken, jwt.KindAccess, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.Admin{Email: claims.Email, Name: claims.Name}, nil
}

// Revoke drops every refresh token issued to email.
func (s *TokenService) Revoke(ctx context.Context, email string) error {
	const op = "token_service.Revoke"

	if err := s.repo.DeleteAllTokens(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
