package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/alxtravel/travel-booking/internal/auth"
	"github.com/alxtravel/travel-booking/internal/booking"
	"github.com/alxtravel/travel-booking/internal/listing"
	"github.com/alxtravel/travel-booking/internal/payment"
	"github.com/alxtravel/travel-booking/internal/review"
	"github.com/alxtravel/travel-booking/internal/transport/middleware"
	"github.com/alxtravel/travel-booking/internal/transport/swagger"
	"github.com/alxtravel/travel-booking/internal/user"
)

// Handlers groups the HTTP handlers mounted by RegisterAllRoutes. Nil
// handlers are skipped.
type Handlers struct {
	Health  *HealthHandler
	Auth    *auth.Handler
	User    *user.Handler
	Listing *listing.Handler
	Review  *review.Handler
	Booking *booking.Handler
	Payment *payment.Handler
	OpenAPI http.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, allowedOrigins string, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestContext)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if h.OpenAPI != nil {
		router.Handle(swagger.DocumentURL, h.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
			})
		}

		// Payments are driven by the guest and by gateway callbacks; the
		// booking id and transaction reference act as the capability.
		if h.Payment != nil {
			r.Route("/payments", h.Payment.Routes)
		}

		if h.Listing != nil {
			r.Get("/listings", h.Listing.GetListings)
			r.Get("/listings/{id}", h.Listing.GetListing)
		}
		if h.Review != nil {
			r.Get("/listings/{id}/reviews", h.Review.GetReviews)
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Listing != nil {
				pr.Group(func(hr chi.Router) {
					hr.Use(middleware.RequireRoles(logger, "host", "admin"))
					hr.Post("/listings", h.Listing.CreateListing)
					hr.Put("/listings/{id}", h.Listing.ReplaceListing)
					hr.Patch("/listings/{id}", h.Listing.PatchListing)
					hr.Delete("/listings/{id}", h.Listing.DeleteListing)
				})
			}

			if h.Review != nil {
				pr.Post("/listings/{id}/reviews", h.Review.CreateReview)
			}

			if h.Booking != nil {
				pr.Route("/bookings", func(br chi.Router) {
					br.Post("/", h.Booking.CreateBooking)
					br.Get("/", h.Booking.GetBookings)
					br.Get("/{id}", h.Booking.GetBooking)
					br.Patch("/{id}/cancel", h.Booking.CancelBooking)
				})
			}
		})
	})
}
