package review

import (
	"time"

	"github.com/google/uuid"

	reviewDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/review"
)

type Review struct {
	ID        uuid.UUID `json:"review_id"`
	ListingID uuid.UUID `json:"listing"`
	UserID    uuid.UUID `json:"user"`
	Author    string    `json:"author,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(r *reviewDatamodel.Review) *Review {
	out := &Review{
		ID:        r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User.FirstName != "" {
		out.Author = r.User.FirstName + " " + r.User.LastName
	}
	return out
}
