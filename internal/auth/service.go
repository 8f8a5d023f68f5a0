package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alxtravel/travel-booking/internal"
	userDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

// RepositoryAPI looks users up for authentication. Both lookups return
// internal.ErrUserNotFound when nothing matches.
type RepositoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userDatamodel.User, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, req LoginRequest) (*AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Authorize(ctx context.Context, accessToken string) (*internal.CurrentUser, error)
}

type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if stdErrors.Is(err, internal.ErrUserNotFound) {
		return nil, internal.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := VerifyPassword(u.PasswordHash, req.Password); err != nil {
		s.logger.Warn("login rejected: password mismatch", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	s.logger.Info("user authenticated", "user_id", u.ID, "role", u.Role)
	return s.issue(u)
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Authorize resolves an access token to the active user it was issued for.
func (s *Service) Authorize(ctx context.Context, accessToken string) (*internal.CurrentUser, error) {
	claims, err := s.tokens.ValidateToken(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return currentUserOf(u), nil
}

func (s *Service) activeUser(ctx context.Context, rawID string) (*userDatamodel.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, id)
	if stdErrors.Is(err, internal.ErrUserNotFound) {
		return nil, internal.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

func (s *Service) issue(u *userDatamodel.User) (*AuthTokens, error) {
	subject := subjectOf(u)

	access, err := s.tokens.GenerateAccessToken(subject)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(subject)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
