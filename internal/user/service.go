package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alxtravel/travel-booking/internal"
)

// Repository returns internal.ErrUserNotFound for unknown ids.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}
