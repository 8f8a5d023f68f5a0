package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	reviewDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/review"
)

type RepositoryAPI interface {
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]*reviewDatamodel.Review, error)
	Create(ctx context.Context, r *reviewDatamodel.Review) error
}

// ListingLookup returns errors.ErrListingNotFound for unknown listings.
type ListingLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*listingDatamodel.Listing, error)
}

type ServiceAPI interface {
	ListReviews(ctx context.Context, listingID uuid.UUID) ([]*Review, error)
	CreateReview(ctx context.Context, userID, listingID uuid.UUID, req CreateReviewRequest) (*Review, error)
}

type Service struct {
	repo     RepositoryAPI
	listings ListingLookup
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, listings ListingLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		logger:   logger,
	}
}

func (s *Service) ListReviews(ctx context.Context, listingID uuid.UUID) ([]*Review, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		s.logger.Error("failed to list reviews", "listing_id", listingID, "error", err)
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	out := make([]*Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, FromDataModel(r))
	}
	return out, nil
}

func (s *Service) CreateReview(ctx context.Context, userID, listingID uuid.UUID, req CreateReviewRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	r := &reviewDatamodel.Review{
		ListingID: listingID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create review", "listing_id", listingID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review created", "review_id", r.ID, "listing_id", listingID, "rating", r.Rating)
	return FromDataModel(r), nil
}
