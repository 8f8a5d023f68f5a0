package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/alxtravel/travel-booking/internal"
	userDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func subjectOf(u *userDatamodel.User) Subject {
	return Subject{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   string(u.Role),
	}
}

func currentUserOf(u *userDatamodel.User) *internal.CurrentUser {
	return &internal.CurrentUser{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}
