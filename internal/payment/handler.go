package payment

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/alxtravel/travel-booking/internal/transport"
)

type Handler struct {
	transport.BaseHandler
	PaymentService ServiceAPI
}

func NewHandler(paymentService ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(logger),
		PaymentService: paymentService,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/initiate", h.InitiatePayment)
	r.Post("/verify", h.VerifyPayment)
	r.Get("/verify/{transaction_id}", h.VerifyPaymentByReference)
	r.Get("/callback", h.HandleCallback)
	r.Post("/callback", h.HandleCallback)
	r.Get("/{id}", h.GetPayment)
}

// InitiatePayment handles POST /api/v1/payments/initiate
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req InitiatePaymentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("InitiatePayment: failed to parse request body", "error", err)
		h.HandleError(w, err)
		return
	}

	resp, err := h.PaymentService.InitiatePayment(r.Context(), req)
	if err != nil {
		h.Logger.Error("InitiatePayment: service error", "error", err, "booking_id", req.Booking)
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("VerifyPayment: failed to parse request body", "error", err)
		h.HandleError(w, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.HandleError(w, err)
		return
	}

	h.verify(w, r, req.TransactionID)
}

// VerifyPaymentByReference handles GET /api/v1/payments/verify/{transaction_id}
func (h *Handler) VerifyPaymentByReference(w http.ResponseWriter, r *http.Request) {
	req := VerifyPaymentRequest{TransactionID: chi.URLParam(r, "transaction_id")}
	if err := req.Validate(); err != nil {
		h.HandleError(w, err)
		return
	}

	h.verify(w, r, req.TransactionID)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, txRef string) {
	result, err := h.PaymentService.VerifyPayment(r.Context(), txRef)
	if err != nil {
		h.Logger.Error("VerifyPayment: service error", "error", err, "tx_ref", txRef)
		h.HandleError(w, err)
		return
	}

	status := http.StatusOK
	if result.Message() != MessagePaymentCompleted {
		status = http.StatusBadRequest
	}

	h.WriteJSON(w, status, VerifyPaymentResponse{Status: result.Message()})
}

// GetPayment handles GET /api/v1/payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	p, err := h.PaymentService.GetPayment(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}
