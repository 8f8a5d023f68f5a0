package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paymentDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/payment"
)

const (
	MessagePaymentCompleted = "Payment completed"
	MessagePaymentFailed    = "Payment failed"
	MessageInitiationFailed = "Payment initiation failed"
)

// Payment is the API representation of a payment record.
type Payment struct {
	ID            uuid.UUID               `json:"payment_id"`
	BookingID     uuid.UUID               `json:"booking"`
	Amount        string                  `json:"amount"`
	PaymentMethod string                  `json:"payment_method"`
	TransactionID string                  `json:"transaction_id"`
	Status        paymentDatamodel.Status `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func NewPayment(p *paymentDatamodel.Payment) *Payment {
	return &Payment{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount.StringFixed(2),
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TxRef(),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PayableBooking is the booking data a payment needs: what is owed and who pays.
type PayableBooking struct {
	ID         uuid.UUID
	TotalPrice decimal.Decimal
	Email      string
	FirstName  string
	LastName   string
}

// VerifyResult is the terminal state a verification settled on.
type VerifyResult struct {
	Status  paymentDatamodel.Status
	Payment *Payment
}

func (r *VerifyResult) Message() string {
	if r.Status == paymentDatamodel.StatusCompleted {
		return MessagePaymentCompleted
	}
	return MessagePaymentFailed
}
