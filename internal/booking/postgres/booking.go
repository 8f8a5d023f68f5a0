package postgres

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/booking"
	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) booking.RepositoryAPI {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *bookingDatamodel.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookingDatamodel.Booking, error) {
	var b bookingDatamodel.Booking
	err := r.db.WithContext(ctx).Preload("Listing").Where("booking_id = ?", id).First(&b).Error
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*bookingDatamodel.Booking, error) {
	var bookings []*bookingDatamodel.Booking
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&bookingDatamodel.Booking{}).
		Where("booking_id = ? AND status IN ?", id, []bookingDatamodel.Status{
			bookingDatamodel.StatusPending,
			bookingDatamodel.StatusConfirmed,
		}).
		Update("status", bookingDatamodel.StatusCanceled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
