package middleware

import (
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/alxtravel/travel-booking/pkg/logger"
)

// RequestContext echoes the request id assigned by chi's RequestID middleware
// and binds it to the request-scoped logger.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		if reqID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "request_id", reqID)
		w.Header().Set("X-Request-Id", reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
