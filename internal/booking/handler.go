package booking

import (
	"log/slog"
	"net/http"

	userDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/user"
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

func (h *Handler) actor(r *http.Request) (Actor, error) {
	u, id, err := h.CurrentUser(r)
	if err != nil {
		return Actor{}, err
	}
	return Actor{
		ID:      id,
		Email:   u.Email,
		IsAdmin: u.HasRole(string(userDatamodel.RoleAdmin)),
	}, nil
}

// CreateBooking handles POST /api/v1/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var req CreateBookingRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	b, err := h.Service.CreateBooking(r.Context(), actor, req)
	if err != nil {
		h.Logger.Error("CreateBooking: service error", "error", err, "listing_id", req.Listing)
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

// GetBookings handles GET /api/v1/bookings
func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	bookings, err := h.Service.ListBookings(r.Context(), actor)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /api/v1/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	b, err := h.Service.GetBooking(r.Context(), actor, id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

// CancelBooking handles PATCH /api/v1/bookings/{id}/cancel
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	b, err := h.Service.CancelBooking(r.Context(), actor, id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}
