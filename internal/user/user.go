package user

import (
	"time"

	"github.com/google/uuid"

	userDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

// User is the profile of an account. The db tags match the users table.
type User struct {
	ID          uuid.UUID          `json:"user_id" db:"user_id"`
	Email       string             `json:"email" db:"email"`
	FirstName   string             `json:"first_name" db:"first_name"`
	LastName    string             `json:"last_name" db:"last_name"`
	PhoneNumber *string            `json:"phone_number,omitempty" db:"phone_number"`
	Role        userDatamodel.Role `json:"role" db:"role"`
	IsActive    bool               `json:"is_active" db:"is_active"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CanHost reports whether the account may publish listings.
func (u *User) CanHost() bool {
	return u.Role == userDatamodel.RoleHost || u.Role == userDatamodel.RoleAdmin
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
