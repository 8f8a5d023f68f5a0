package review_test

import (
	"context"
	stdErrors "errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/alxtravel/travel-booking/internal"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	reviewDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/review"
	"github.com/alxtravel/travel-booking/internal/review"
)

type mockReviewRepository struct {
	reviews   []*reviewDatamodel.Review
	createErr error
}

func (m *mockReviewRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]*reviewDatamodel.Review, error) {
	var out []*reviewDatamodel.Review
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) Create(ctx context.Context, r *reviewDatamodel.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = uuid.New()
	m.reviews = append(m.reviews, r)
	return nil
}

type mockListingLookup struct {
	listings map[uuid.UUID]*listingDatamodel.Listing
}

func (m *mockListingLookup) GetByID(ctx context.Context, id uuid.UUID) (*listingDatamodel.Listing, error) {
	if l, ok := m.listings[id]; ok {
		return l, nil
	}
	return nil, errors.ErrListingNotFound
}

var _ = Describe("ReviewService", func() {
	var (
		service   *review.Service
		repo      *mockReviewRepository
		listingID uuid.UUID
		userID    uuid.UUID
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		listingID = uuid.New()
		userID = uuid.New()
		repo = &mockReviewRepository{}
		listings := &mockListingLookup{listings: map[uuid.UUID]*listingDatamodel.Listing{
			listingID: {ID: listingID, Title: "Lakeside Cabin", IsActive: true},
		}}
		service = review.NewService(repo, listings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("CreateReview", func() {
		It("should store a valid review", func() {
			created, err := service.CreateReview(ctx, userID, listingID, review.CreateReviewRequest{
				Rating:  5,
				Comment: "  Lovely stay  ",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Rating).To(Equal(5))
			Expect(created.Comment).To(Equal("Lovely stay"))
			Expect(created.UserID).To(Equal(userID))
			Expect(repo.reviews).To(HaveLen(1))
		})

		DescribeTable("should reject ratings outside 1 to 5",
			func(rating int) {
				_, err := service.CreateReview(ctx, userID, listingID, review.CreateReviewRequest{
					Rating:  rating,
					Comment: "ok",
				})

				appErr, ok := errors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.GetDetailedMessage()).To(Equal("rating must be between 1 and 5"))
				Expect(repo.reviews).To(BeEmpty())
			},
			Entry("zero", 0),
			Entry("six", 6),
			Entry("negative", -1),
		)

		It("should require a comment", func() {
			_, err := service.CreateReview(ctx, userID, listingID, review.CreateReviewRequest{Rating: 4, Comment: "   "})

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(Equal("comment is required"))
		})

		It("should return ErrListingNotFound for an unknown listing", func() {
			_, err := service.CreateReview(ctx, userID, uuid.New(), review.CreateReviewRequest{Rating: 4, Comment: "ok"})

			Expect(err).To(MatchError(errors.ErrListingNotFound))
			Expect(repo.reviews).To(BeEmpty())
		})

		It("should wrap persistence errors", func() {
			repo.createErr = stdErrors.New("disk full")

			_, err := service.CreateReview(ctx, userID, listingID, review.CreateReviewRequest{Rating: 3, Comment: "ok"})

			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})
	})

	Describe("ListReviews", func() {
		It("should return the reviews of the listing", func() {
			repo.reviews = []*reviewDatamodel.Review{
				{ID: uuid.New(), ListingID: listingID, UserID: userID, Rating: 4, Comment: "Good"},
				{ID: uuid.New(), ListingID: uuid.New(), UserID: userID, Rating: 1, Comment: "Elsewhere"},
			}

			reviews, err := service.ListReviews(ctx, listingID)

			Expect(err).NotTo(HaveOccurred())
			Expect(reviews).To(HaveLen(1))
			Expect(reviews[0].Comment).To(Equal("Good"))
		})

		It("should return an empty list rather than nil", func() {
			reviews, err := service.ListReviews(ctx, listingID)

			Expect(err).NotTo(HaveOccurred())
			Expect(reviews).NotTo(BeNil())
			Expect(reviews).To(BeEmpty())
		})

		It("should return ErrListingNotFound for an unknown listing", func() {
			_, err := service.ListReviews(ctx, uuid.New())
			Expect(err).To(MatchError(errors.ErrListingNotFound))
		})
	})
})
