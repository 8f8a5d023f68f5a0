package transport

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/alxtravel/travel-booking/internal"
)

// CurrentUser returns the authenticated user attached by the auth middleware
// along with its parsed id.
func (h *BaseHandler) CurrentUser(r *http.Request) (*internal.CurrentUser, uuid.UUID, error) {
	u, ok := internal.UserFromContext(r.Context())
	if !ok {
		return nil, uuid.Nil, internal.ErrAuthRequired
	}
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, uuid.Nil, internal.ErrInvalidToken
	}
	return u, id, nil
}
