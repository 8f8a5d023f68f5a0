package postgres

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errors "github.com/alxtravel/travel-booking/internal"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	"github.com/alxtravel/travel-booking/internal/listing"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

var _ listing.RepositoryAPI = (*ListingRepository)(nil)

func (r *ListingRepository) List(ctx context.Context, activeOnly bool) ([]*listingDatamodel.Listing, error) {
	var listings []*listingDatamodel.Listing
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&listings).Error
	return listings, err
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listingDatamodel.Listing, error) {
	var l listingDatamodel.Listing
	err := r.db.WithContext(ctx).Where("listing_id = ?", id).First(&l).Error
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) Create(ctx context.Context, l *listingDatamodel.Listing) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *ListingRepository) Update(ctx context.Context, l *listingDatamodel.Listing) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&listingDatamodel.Listing{}).
		Where("listing_id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":           l.Title,
			"description":     l.Description,
			"location":        l.Location,
			"price_per_night": l.PricePerNight,
			"is_active":       l.IsActive,
			"updated_at":      now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrListingNotFound
	}
	l.UpdatedAt = now
	return nil
}

// Delete relies on the schema's ON DELETE CASCADE for dependent rows.
func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("listing_id = ?", id).Delete(&listingDatamodel.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrListingNotFound
	}
	return nil
}
