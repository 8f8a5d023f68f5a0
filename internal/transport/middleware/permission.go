package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/transport"
)

// RequireRoles lets the request through only when the authenticated user
// holds one of roles. It must run after the auth middleware.
func RequireRoles(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				base.HandleError(w, internal.ErrAuthRequired)
				return
			}

			if !user.HasRole(roles...) {
				base.Logger.Warn("access denied: insufficient role",
					"user_id", user.ID,
					"role", user.Role,
					"required_roles", roles)
				base.HandleError(w, internal.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
