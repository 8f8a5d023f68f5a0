package booking

import (
	"time"

	"github.com/google/uuid"

	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
)

// Booking is the API representation of a reservation.
type Booking struct {
	ID           uuid.UUID               `json:"booking_id"`
	ListingID    uuid.UUID               `json:"listing"`
	ListingTitle string                  `json:"listing_title,omitempty"`
	UserID       uuid.UUID               `json:"user"`
	StartDate    string                  `json:"start_date"`
	EndDate      string                  `json:"end_date"`
	Nights       int                     `json:"nights"`
	TotalPrice   string                  `json:"total_price"`
	Status       bookingDatamodel.Status `json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
}

func FromDataModel(b *bookingDatamodel.Booking) *Booking {
	return &Booking{
		ID:           b.ID,
		ListingID:    b.ListingID,
		ListingTitle: b.Listing.Title,
		UserID:       b.UserID,
		StartDate:    b.StartDate.Format(time.DateOnly),
		EndDate:      b.EndDate.Format(time.DateOnly),
		Nights:       Nights(b.StartDate, b.EndDate),
		TotalPrice:   b.TotalPrice.StringFixed(2),
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	}
}

// Nights counts the calendar nights between check-in and check-out.
func Nights(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// Actor is the user a booking operation runs on behalf of.
type Actor struct {
	ID      uuid.UUID
	Email   string
	IsAdmin bool
}

func (a Actor) CanAccess(b *bookingDatamodel.Booking) bool {
	return a.IsAdmin || b.UserID == a.ID
}
