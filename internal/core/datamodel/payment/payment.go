package payment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status is the closed set of payment states. Completed is final; a Failed
// payment can still complete when the gateway later confirms its reference,
// or be re-armed to Pending by a new initiation.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

const DefaultMethod = "card"

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("invalid payment status %q", s)
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
		return fmt.Errorf("cannot scan %T into payment status", value)
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

type Payment struct {
	ID            uuid.UUID       `gorm:"column:payment_id;type:uuid;primaryKey"`
	BookingID     uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	PaymentMethod string          `gorm:"column:payment_method;size:50;not null;default:card"`
	TransactionID *string         `gorm:"column:transaction_id;size:100;uniqueIndex"`
	Status        Status          `gorm:"column:status;type:varchar(20);not null;default:Pending"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = DefaultMethod
	}
	return nil
}

func (p *Payment) TxRef() string {
	if p.TransactionID == nil {
		return ""
	}
	return *p.TransactionID
}
