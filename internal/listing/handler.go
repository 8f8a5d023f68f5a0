package listing

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

// GetListings handles GET /api/v1/listings
func (h *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Service.ListListings(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listings)
}

// GetListing handles GET /api/v1/listings/{id}
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamUUID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	l, err := h.Service.GetListing(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l)
}

// CreateListing handles POST /api/v1/listings. The caller becomes the host.
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	_, hostID, err := h.CurrentUser(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var req CreateListingRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	l, err := h.Service.CreateListing(r.Context(), hostID, req)
	if err != nil {
		h.Logger.Error("CreateListing: service error", "error", err, "host_id", hostID)
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) actor(r *http.Request) (Actor, error) {
	u, id, err := h.CurrentUser(r)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, IsAdmin: u.HasRole(string(userDatamodel.RoleAdmin))}, nil
}

// ReplaceListing handles PUT /api/v1/listings/{id}
func (h *Handler) ReplaceListing(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	h.update(w, r, &req, func() UpdateListingRequest { return req.AsUpdate() })
}

// PatchListing handles PATCH /api/v1/listings/{id}
func (h *Handler) PatchListing(w http.ResponseWriter, r *http.Request) {
	var req UpdateListingRequest
	h.update(w, r, &req, func() UpdateListingRequest { return req })
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, body interface{}, changes func() UpdateListingRequest) {
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
	if err := h.DecodeJSON(r, body); err != nil {
		h.HandleError(w, err)
		return
	}

	l, err := h.Service.UpdateListing(r.Context(), actor, id, changes())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l)
}

// DeleteListing handles DELETE /api/v1/listings/{id}
func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.DeleteListing(r.Context(), actor, id); err != nil {
		h.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
