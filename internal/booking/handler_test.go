package booking_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/booking"
	bookingPostgres "github.com/alxtravel/travel-booking/internal/booking/postgres"
	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/user"
	"github.com/alxtravel/travel-booking/internal/core/testdb"
	listingPostgres "github.com/alxtravel/travel-booking/internal/listing/postgres"
)

var _ = Describe("Booking Handler Integration", func() {
	var (
		db       *gorm.DB
		handler  *booking.Handler
		notifier *mockNotifier
		guest    *user.User
		stranger *user.User
		listed   *listingDatamodel.Listing
	)

	as := func(u *user.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := internal.ContextWithUser(r.Context(), &internal.CurrentUser{
					ID:    u.ID.String(),
					Email: u.Email,
					Role:  string(u.Role),
				})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	routerFor := func(u *user.User) chi.Router {
		r := chi.NewRouter()
		r.Route("/bookings", func(br chi.Router) {
			if u != nil {
				br.Use(as(u))
			}
			br.Post("/", handler.CreateBooking)
			br.Get("/", handler.GetBookings)
			br.Get("/{id}", handler.GetBooking)
			br.Patch("/{id}/cancel", handler.CancelBooking)
		})
		return r
	}

	serve := func(u *user.User, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		var reader io.Reader
		if body != "" {
			reader = bytes.NewBufferString(body)
		}
		req := httptest.NewRequest(method, target, reader)
		w := httptest.NewRecorder()
		routerFor(u).ServeHTTP(w, req)

		var decoded map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
		return w, decoded
	}

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testdb.Close, db)

		host, err := testdb.CreateUser(db, "host@example.com", user.RoleHost)
		Expect(err).NotTo(HaveOccurred())
		guest, err = testdb.CreateUser(db, "guest@example.com", user.RoleGuest)
		Expect(err).NotTo(HaveOccurred())
		stranger, err = testdb.CreateUser(db, "stranger@example.com", user.RoleGuest)
		Expect(err).NotTo(HaveOccurred())
		listed, err = testdb.CreateListing(db, host, "80.00")
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		notifier = &mockNotifier{}
		service := booking.NewService(
			bookingPostgres.NewBookingRepository(db),
			listingPostgres.NewListingRepository(db),
			notifier,
			logger,
		)
		handler = booking.NewHandler(service, logger)
	})

	future := func(days int) string {
		return time.Now().UTC().AddDate(0, 0, days).Format(time.DateOnly)
	}

	It("should create a booking for the caller", func() {
		body := `{"listing":"` + listed.ID.String() + `","start_date":"` + future(10) + `","end_date":"` + future(12) + `"}`

		w, resp := serve(guest, http.MethodPost, "/bookings", body)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(resp["total_price"]).To(Equal("160.00"))
		Expect(resp["status"]).To(Equal("pending"))
		Expect(resp["user"]).To(Equal(guest.ID.String()))
		Expect(resp["start_date"]).To(Equal(future(10)))
		Expect(notifier.notifications()).To(HaveLen(1))

		var stored bookingDatamodel.Booking
		Expect(db.Where("user_id = ?", guest.ID).First(&stored).Error).To(Succeed())
		Expect(stored.TotalPrice.StringFixed(2)).To(Equal("160.00"))
	})

	It("should reject malformed dates", func() {
		body := `{"listing":"` + listed.ID.String() + `","start_date":"12/03/2026","end_date":"` + future(12) + `"}`

		w, resp := serve(guest, http.MethodPost, "/bookings", body)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(resp["error"]).To(ContainSubstring("expected YYYY-MM-DD"))
	})

	It("should require authentication", func() {
		w, resp := serve(nil, http.MethodGet, "/bookings", "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(resp["error"]).To(Equal("Authentication credentials were not provided"))
	})

	Context("with an existing booking", func() {
		var existing *bookingDatamodel.Booking

		BeforeEach(func() {
			var err error
			existing, err = testdb.CreateBooking(db, listed, guest, 2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list the caller's bookings", func() {
			w := httptest.NewRecorder()
			routerFor(guest).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			var bookings []booking.Booking
			Expect(json.NewDecoder(w.Body).Decode(&bookings)).To(Succeed())
			Expect(bookings).To(HaveLen(1))
			Expect(bookings[0].ListingTitle).To(Equal("Lakeside Cabin"))
			Expect(bookings[0].Nights).To(Equal(2))
		})

		It("should hide the booking from other guests", func() {
			w, resp := serve(stranger, http.MethodGet, "/bookings/"+existing.ID.String(), "")

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(resp["error"]).To(Equal("unauthorized access to resource"))
		})

		It("should cancel the booking and refuse a second cancel", func() {
			w, resp := serve(guest, http.MethodPatch, "/bookings/"+existing.ID.String()+"/cancel", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["status"]).To(Equal("canceled"))

			w, resp = serve(guest, http.MethodPatch, "/bookings/"+existing.ID.String()+"/cancel", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["error"]).To(Equal("Booking cannot be canceled in its current status"))
		})

		It("should return 404 for an unknown booking", func() {
			w, _ := serve(guest, http.MethodGet, "/bookings/"+uuid.NewString(), "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
