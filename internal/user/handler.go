package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/alxtravel/travel-booking/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /api/v1/users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	_, id, err := h.CurrentUser(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	u, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetByID failed", "user_id", id, "error", err)
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
