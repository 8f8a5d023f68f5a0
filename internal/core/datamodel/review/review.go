package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

type Review struct {
	ID        uuid.UUID `gorm:"column:review_id;type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	User      user.User `gorm:"foreignKey:UserID;references:ID"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
