package listing_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-booking/internal"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/user"
	"github.com/alxtravel/travel-booking/internal/core/testdb"
	"github.com/alxtravel/travel-booking/internal/listing"
	listingPostgres "github.com/alxtravel/travel-booking/internal/listing/postgres"
)

var _ = Describe("Listing Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		host   *user.User
		active *listingDatamodel.Listing
	)

	asUser := func(u *user.User) func(http.Handler) http.Handler {
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

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testdb.Close, db)

		host, err = testdb.CreateUser(db, "host@example.com", user.RoleHost)
		Expect(err).NotTo(HaveOccurred())
		active, err = testdb.CreateListing(db, host, "120.50")
		Expect(err).NotTo(HaveOccurred())

		// Given an inactive listing that must not be advertised
		hidden, err := testdb.CreateListing(db, host, "80.00")
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(hidden).Update("is_active", false).Error).To(Succeed())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := listing.NewService(listingPostgres.NewListingRepository(db), logger)
		handler := listing.NewHandler(service, logger)

		router = chi.NewRouter()
		router.Get("/listings", handler.GetListings)
		router.Get("/listings/{id}", handler.GetListing)
		router.With(asUser(host)).Post("/listings", handler.CreateListing)
	})

	It("should list only active listings", func() {
		req := httptest.NewRequest(http.MethodGet, "/listings", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var listings []listing.Listing
		Expect(json.NewDecoder(w.Body).Decode(&listings)).To(Succeed())
		Expect(listings).To(HaveLen(1))
		Expect(listings[0].ID).To(Equal(active.ID))
		Expect(listings[0].PricePerNight).To(Equal("120.50"))
	})

	It("should return a listing by id", func() {
		req := httptest.NewRequest(http.MethodGet, "/listings/"+active.ID.String(), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var got listing.Listing
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Title).To(Equal("Lakeside Cabin"))
		Expect(got.HostID).To(Equal(host.ID))
	})

	It("should return 404 for an unknown listing", func() {
		req := httptest.NewRequest(http.MethodGet, "/listings/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Listing not found"))
	})

	It("should create a listing owned by the caller", func() {
		body := `{"title":"City Loft","description":"Close to everything","location":"Addis Ababa","price_per_night":"75.00"}`
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var created listing.Listing
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.HostID).To(Equal(host.ID))
		Expect(created.IsActive).To(BeTrue())
		Expect(created.PricePerNight).To(Equal("75.00"))

		var stored listingDatamodel.Listing
		Expect(db.Where("listing_id = ?", created.ID).First(&stored).Error).To(Succeed())
		Expect(stored.Location).To(Equal("Addis Ababa"))
	})

	DescribeTable("should reject invalid listings",
		func(body, message string) {
			req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			var resp map[string]string
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp["error"]).To(Equal(message))
		},
		Entry("missing title", `{"description":"d","location":"l","price_per_night":"10"}`, "title is required"),
		Entry("zero price", `{"title":"t","description":"d","location":"l","price_per_night":"0"}`, "price_per_night must be greater than 0"),
		Entry("too many decimals", `{"title":"t","description":"d","location":"l","price_per_night":"10.005"}`, "price_per_night must have at most 2 decimal places"),
		Entry("price beyond the column", `{"title":"t","description":"d","location":"l","price_per_night":"100000000"}`, "price_per_night must not exceed 99999999.99"),
	)
})

var _ = Describe("Listing Handler Changes", func() {
	var (
		db      *gorm.DB
		router  chi.Router
		owner   *user.User
		caller  *user.User
		cabin   *listingDatamodel.Listing
		request func(method, path, body string) *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testdb.Close, db)

		owner, err = testdb.CreateUser(db, "owner@example.com", user.RoleHost)
		Expect(err).NotTo(HaveOccurred())
		cabin, err = testdb.CreateListing(db, owner, "120.50")
		Expect(err).NotTo(HaveOccurred())
		caller = owner

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := listing.NewHandler(listing.NewService(listingPostgres.NewListingRepository(db), logger), logger)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := internal.ContextWithUser(r.Context(), &internal.CurrentUser{
					ID:    caller.ID.String(),
					Email: caller.Email,
					Role:  string(caller.Role),
				})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
		router.Put("/listings/{id}", handler.ReplaceListing)
		router.Patch("/listings/{id}", handler.PatchListing)
		router.Delete("/listings/{id}", handler.DeleteListing)

		request = func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}
	})

	stored := func() listingDatamodel.Listing {
		var l listingDatamodel.Listing
		Expect(db.Where("listing_id = ?", cabin.ID).First(&l).Error).To(Succeed())
		return l
	}

	It("should replace every field for the owner", func() {
		w := request(http.MethodPut, "/listings/"+cabin.ID.String(),
			`{"title":"Hilltop Villa","description":"Views all round","location":"Entoto","price_per_night":"210.00","is_active":false}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var updated listing.Listing
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Title).To(Equal("Hilltop Villa"))
		Expect(updated.PricePerNight).To(Equal("210.00"))
		Expect(updated.IsActive).To(BeFalse())

		l := stored()
		Expect(l.Location).To(Equal("Entoto"))
		Expect(l.IsActive).To(BeFalse())
	})

	It("should require the full body on replace", func() {
		w := request(http.MethodPut, "/listings/"+cabin.ID.String(), `{"title":"Hilltop Villa"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(stored().Title).To(Equal("Lakeside Cabin"))
	})

	It("should change only the given fields on patch", func() {
		w := request(http.MethodPatch, "/listings/"+cabin.ID.String(), `{"price_per_night":"99.90"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		l := stored()
		Expect(l.PricePerNight.StringFixed(2)).To(Equal("99.90"))
		Expect(l.Title).To(Equal("Lakeside Cabin"))
		Expect(l.IsActive).To(BeTrue())
	})

	It("should validate the merged listing on patch", func() {
		w := request(http.MethodPatch, "/listings/"+cabin.ID.String(), `{"price_per_night":"100000000"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("price_per_night must not exceed 99999999.99"))
		Expect(stored().PricePerNight.StringFixed(2)).To(Equal("120.50"))
	})

	It("should refuse a host who does not own the listing", func() {
		other, err := testdb.CreateUser(db, "other@example.com", user.RoleHost)
		Expect(err).NotTo(HaveOccurred())
		caller = other

		Expect(request(http.MethodPatch, "/listings/"+cabin.ID.String(), `{"title":"Mine now"}`).Code).
			To(Equal(http.StatusForbidden))
		Expect(request(http.MethodDelete, "/listings/"+cabin.ID.String(), "").Code).
			To(Equal(http.StatusForbidden))
		Expect(stored().Title).To(Equal("Lakeside Cabin"))
	})

	It("should let an admin change any listing", func() {
		admin, err := testdb.CreateUser(db, "admin@example.com", user.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())
		caller = admin

		w := request(http.MethodPatch, "/listings/"+cabin.ID.String(), `{"is_active":false}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stored().IsActive).To(BeFalse())
	})

	It("should delete the listing for the owner", func() {
		w := request(http.MethodDelete, "/listings/"+cabin.ID.String(), "")

		Expect(w.Code).To(Equal(http.StatusNoContent))
		var count int64
		Expect(db.Model(&listingDatamodel.Listing{}).Where("listing_id = ?", cabin.ID).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("should return 404 when changing an unknown listing", func() {
		Expect(request(http.MethodPatch, "/listings/"+uuid.NewString(), `{"title":"x"}`).Code).
			To(Equal(http.StatusNotFound))
		Expect(request(http.MethodDelete, "/listings/"+uuid.NewString(), "").Code).
			To(Equal(http.StatusNotFound))
	})
})
