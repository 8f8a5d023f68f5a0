package postgres

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	paymentpkg "github.com/alxtravel/travel-booking/internal/payment"
)

// BookingLookup reads the bookings a payment settles.
type BookingLookup struct {
	db *gorm.DB
}

func NewBookingLookup(db *gorm.DB) paymentpkg.BookingProvider {
	return &BookingLookup{db: db}
}

func (l *BookingLookup) GetPayableBooking(ctx context.Context, id uuid.UUID) (*paymentpkg.PayableBooking, error) {
	var b booking.Booking
	err := l.db.WithContext(ctx).Preload("User").Where("booking_id = ?", id).First(&b).Error
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &paymentpkg.PayableBooking{
		ID:         b.ID,
		TotalPrice: b.TotalPrice,
		Email:      b.User.Email,
		FirstName:  b.User.FirstName,
		LastName:   b.User.LastName,
	}, nil
}

// ConfirmBooking moves a pending booking to confirmed.
func (l *BookingLookup) ConfirmBooking(ctx context.Context, id uuid.UUID) (bool, error) {
	res := l.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("booking_id = ? AND status = ?", id, booking.StatusPending).
		Update("status", booking.StatusConfirmed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
