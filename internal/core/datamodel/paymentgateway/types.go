package paymentgateway

import (
	"errors"

	"github.com/shopspring/decimal"
)

const StatusSuccess = "success"

// InitializeRequest is the charge request body sent to the gateway.
type InitializeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	TxRef       string          `json:"tx_ref"`
	ReturnURL   string          `json:"return_url,omitempty"`
	CallbackURL string          `json:"callback_url,omitempty"`
}

func (r *InitializeRequest) Validate() error {
	if r.TxRef == "" {
		return errors.New("tx_ref is required")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be greater than 0")
	}
	if r.Currency == "" {
		return errors.New("currency is required")
	}
	if r.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

type InitializeData struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
}

type InitializeResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

func (r *InitializeResponse) Succeeded() bool {
	return r.Status == StatusSuccess
}

type VerifyData struct {
	TxRef    string          `json:"tx_ref"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type VerifyResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

func (r *VerifyResponse) Succeeded() bool {
	return r.Status == StatusSuccess
}
