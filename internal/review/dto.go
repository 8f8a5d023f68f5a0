package review

import (
	"strings"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/common/validation"
)

const (
	MinRating = 1
	MaxRating = 5
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r *CreateReviewRequest) Validate() *errors.AppError {
	r.Comment = strings.TrimSpace(r.Comment)

	v := validation.NewValidator()
	v.Field("rating", r.Rating).RangeInt(MinRating, MaxRating, errors.ErrCodeInvalidRating)
	v.Field("comment", r.Comment).Required().MaxLength(2000)
	return v.Validate()
}
