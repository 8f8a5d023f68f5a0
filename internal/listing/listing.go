package listing

import (
	"time"

	"github.com/google/uuid"

	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
)

// Listing is the API representation of a property.
type Listing struct {
	ID            uuid.UUID `json:"listing_id"`
	HostID        uuid.UUID `json:"host"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight string    `json:"price_per_night"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromDataModel(l *listingDatamodel.Listing) *Listing {
	return &Listing{
		ID:            l.ID,
		HostID:        l.HostID,
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight.StringFixed(2),
		IsActive:      l.IsActive,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func FromDataModels(ls []*listingDatamodel.Listing) []*Listing {
	out := make([]*Listing, 0, len(ls))
	for _, l := range ls {
		out = append(out, FromDataModel(l))
	}
	return out
}

// Actor is the user changing a listing. Hosts manage their own listings;
// admins manage any.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

func (a Actor) CanManage(l *listingDatamodel.Listing) bool {
	return a.IsAdmin || l.HostID == a.ID
}
