package payment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/common/validation"
)

type InitiatePaymentRequest struct {
	Booking uuid.UUID       `json:"booking"`
	Amount  decimal.Decimal `json:"amount"`
}

func (r *InitiatePaymentRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("booking", r.Booking).Required()
	validator.Field("amount", r.Amount).
		PositiveDecimal(errors.ErrCodeInvalidAmount).
		MaxDecimalPlaces(2, errors.ErrCodeInvalidAmount).
		MaxDecimal(validation.MaxAmount, errors.ErrCodeInvalidAmount)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type InitiatePaymentResponse struct {
	Payment     *Payment `json:"payment"`
	CheckoutURL string   `json:"checkout_url"`
}

type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

func (r *VerifyPaymentRequest) Validate() error {
	r.TransactionID = strings.TrimSpace(r.TransactionID)

	validator := validation.NewValidator()
	validator.Field("transaction_id", r.TransactionID).Required().MaxLength(100)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

// CallbackRequest is the notification the gateway sends to callback_url.
// Chapa uses trx_ref in query strings and tx_ref in JSON bodies.
type CallbackRequest struct {
	TrxRef string `json:"trx_ref"`
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

func (r *CallbackRequest) Reference() string {
	if r.TrxRef != "" {
		return strings.TrimSpace(r.TrxRef)
	}
	return strings.TrimSpace(r.TxRef)
}
