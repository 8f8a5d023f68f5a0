package listing

import (
	"strings"

	"github.com/shopspring/decimal"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/common/validation"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
)

type CreateListingRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	IsActive      *bool           `json:"is_active,omitempty"`
}

func (r *CreateListingRequest) Validate() *errors.AppError {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)

	v := validation.NewValidator()
	v.Field("title", r.Title).Required().MaxLength(255)
	v.Field("description", r.Description).Required()
	v.Field("location", r.Location).Required().MaxLength(255)
	v.Field("price_per_night", r.PricePerNight).
		PositiveDecimal(errors.ErrCodeInvalidAmount).
		MaxDecimalPlaces(2, errors.ErrCodeInvalidAmount).
		MaxDecimal(validation.MaxAmount, errors.ErrCodeInvalidAmount)
	return v.Validate()
}

func (r *CreateListingRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// AsUpdate turns a full replacement body into an update that sets every field.
func (r *CreateListingRequest) AsUpdate() UpdateListingRequest {
	active := r.Active()
	return UpdateListingRequest{
		Title:         &r.Title,
		Description:   &r.Description,
		Location:      &r.Location,
		PricePerNight: &r.PricePerNight,
		IsActive:      &active,
	}
}

// UpdateListingRequest changes only the fields present in the body.
type UpdateListingRequest struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Location      *string          `json:"location,omitempty"`
	PricePerNight *decimal.Decimal `json:"price_per_night,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// merge overlays the request on l and returns the result in creation form so
// both paths share one set of rules.
func (r *UpdateListingRequest) merge(l *listingDatamodel.Listing) CreateListingRequest {
	active := l.IsActive
	out := CreateListingRequest{
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight,
		IsActive:      &active,
	}
	if r.Title != nil {
		out.Title = *r.Title
	}
	if r.Description != nil {
		out.Description = *r.Description
	}
	if r.Location != nil {
		out.Location = *r.Location
	}
	if r.PricePerNight != nil {
		out.PricePerNight = *r.PricePerNight
	}
	if r.IsActive != nil {
		out.IsActive = r.IsActive
	}
	return out
}
