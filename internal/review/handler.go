package review

import (
	"log/slog"
	"net/http"

	"github.com/alxtravel/travel-booking/internal/transport"
)

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
	}
}

// GetReviews handles GET /api/v1/listings/{id}/reviews
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	listingID, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	reviews, err := h.Service.ListReviews(r.Context(), listingID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /api/v1/listings/{id}/reviews
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.CurrentUser(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	listingID, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var req CreateReviewRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.Service.CreateReview(r.Context(), userID, listingID, req)
	if err != nil {
		h.Logger.Error("CreateReview: service error", "error", err, "listing_id", listingID)
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}
