package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

type Listing struct {
	ID            uuid.UUID       `gorm:"column:listing_id;type:uuid;primaryKey"`
	HostID        uuid.UUID       `gorm:"column:host_id;type:uuid;not null;index"`
	Host          user.User       `gorm:"foreignKey:HostID;references:ID"`
	Title         string          `gorm:"column:title;size:255;not null"`
	Description   string          `gorm:"column:description;not null"`
	Location      string          `gorm:"column:location;size:255;not null"`
	PricePerNight decimal.Decimal `gorm:"column:price_per_night;type:numeric(10,2);not null"`
	IsActive      bool            `gorm:"column:is_active;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
