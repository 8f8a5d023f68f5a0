package booking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

// Status is the closed set of booking states. The lowercase values are the
// wire and column representation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return st, nil
	}
	return "", fmt.Errorf("invalid booking status %q", s)
}

func (s Status) Value() (driver.Value, error) {
	if _, err := ParseStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

func (s *Status) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into booking status", value)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CanCancel reports whether the booking may still be canceled.
func (s Status) CanCancel() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Booking struct {
	ID         uuid.UUID       `gorm:"column:booking_id;type:uuid;primaryKey"`
	ListingID  uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index"`
	Listing    listing.Listing `gorm:"foreignKey:ListingID;references:ID"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	User       user.User       `gorm:"foreignKey:UserID;references:ID"`
	StartDate  time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time       `gorm:"column:end_date;type:date;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status     Status          `gorm:"column:status;type:varchar(10);not null;default:pending"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}
