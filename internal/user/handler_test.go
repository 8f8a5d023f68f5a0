package user_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alxtravel/travel-booking/internal"
	userDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/user"
	"github.com/alxtravel/travel-booking/internal/core/testdb"
	"github.com/alxtravel/travel-booking/internal/user"
	userPostgres "github.com/alxtravel/travel-booking/internal/user/postgres"
)

var _ = Describe("User Handler Integration", func() {
	var (
		handler *user.Handler
		host    *userDatamodel.User
	)

	BeforeEach(func() {
		gdb, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testdb.Close, gdb)

		host, err = testdb.CreateUser(gdb, "host@example.com", userDatamodel.RoleHost)
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		repo := userPostgres.NewRepository(sqlx.NewDb(sqlDB, "sqlite3"))
		handler = user.NewHandler(user.NewService(repo), slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	serve := func(current *internal.CurrentUser) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		if current != nil {
			req = req.WithContext(internal.ContextWithUser(req.Context(), current))
		}
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, req)
		return w
	}

	It("should return the profile of the authenticated user", func() {
		w := serve(&internal.CurrentUser{ID: host.ID.String(), Email: host.Email, Role: "host"})

		Expect(w.Code).To(Equal(http.StatusOK))
		var got user.User
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.ID).To(Equal(host.ID))
		Expect(got.Email).To(Equal("host@example.com"))
		Expect(got.Role).To(Equal(userDatamodel.RoleHost))
		Expect(got.IsActive).To(BeTrue())
		Expect(got.CanHost()).To(BeTrue())
		Expect(got.FullName()).To(Equal("Abebe Bikila"))
	})

	It("should not expose the password hash", func() {
		w := serve(&internal.CurrentUser{ID: host.ID.String()})

		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("should return 401 without an authenticated user", func() {
		w := serve(nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should return 404 when the account no longer exists", func() {
		w := serve(&internal.CurrentUser{ID: "8d0f3c57-8a7e-4d6b-9a55-0f2f3f9b1c11"})

		Expect(w.Code).To(Equal(http.StatusNotFound))
		var body map[string]string
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]).To(Equal("User not found"))
	})
})
