package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	reviewDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/review"
	"github.com/alxtravel/travel-booking/internal/review"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) review.RepositoryAPI {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]*reviewDatamodel.Review, error) {
	var reviews []*reviewDatamodel.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) Create(ctx context.Context, rv *reviewDatamodel.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
}
