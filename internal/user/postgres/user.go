package postgres

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/user"
)

const selectUser = `
SELECT user_id, email, first_name, last_name, phone_number, role, is_active, created_at, updated_at
FROM users
WHERE user_id = ?`

// Repository reads user profiles with plain SQL.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := r.db.GetContext(ctx, &u, r.db.Rebind(selectUser), id); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
