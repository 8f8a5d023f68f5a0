package payment

import (
	"net/http"
)

type CallbackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleCallback handles the gateway's callback_url notification. The
// notification only names the transaction; its outcome is always re-checked
// with the gateway through VerifyPayment.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &req); err != nil {
			h.Logger.Warn("HandleCallback: invalid payment callback body", "error", err)
			h.HandleError(w, err)
			return
		}
	}

	query := r.URL.Query()
	if req.TrxRef == "" {
		req.TrxRef = query.Get("trx_ref")
	}
	if req.TxRef == "" {
		req.TxRef = query.Get("tx_ref")
	}
	if req.Status == "" {
		req.Status = query.Get("status")
	}

	txRef := req.Reference()
	if txRef == "" {
		h.Logger.Warn("HandleCallback: payment callback missing transaction reference")
		h.WriteError(w, http.StatusBadRequest, "trx_ref is required")
		return
	}

	h.Logger.Info("received payment callback", "tx_ref", txRef, "gateway_status", req.Status)

	result, err := h.PaymentService.VerifyPayment(r.Context(), txRef)
	if err != nil {
		h.Logger.Error("HandleCallback: verification failed", "error", err, "tx_ref", txRef)
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CallbackResponse{
		Status:  "success",
		Message: result.Message(),
	})
}
