package auth

import (
	"strings"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/common/validation"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() *errors.AppError {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	v := validation.NewValidator()
	v.Field("email", r.Email).Required().Email()
	v.Field("password", r.Password).Required()
	return v.Validate()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", r.RefreshToken).Required()
	return v.Validate()
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
