package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/common/validation"
	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
)

// RepositoryAPI is the booking persistence contract. GetByID returns
// errors.ErrBookingNotFound when nothing matches.
type RepositoryAPI interface {
	Create(ctx context.Context, b *bookingDatamodel.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*bookingDatamodel.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*bookingDatamodel.Booking, error)
	// Cancel moves a pending or confirmed booking to canceled and reports
	// whether it was still cancelable.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

// ListingLookup returns errors.ErrListingNotFound for unknown listings.
type ListingLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*listingDatamodel.Listing, error)
}

type Notifier interface {
	BookingCreated(ctx context.Context, email string, bookingID uuid.UUID, listingTitle string, start, end time.Time)
}

type ServiceAPI interface {
	CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*Booking, error)
	ListBookings(ctx context.Context, actor Actor) ([]*Booking, error)
	GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error)
}

type Service struct {
	repo     RepositoryAPI
	listings ListingLookup
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, listings ListingLookup, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the source of today's date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*Booking, error) {
	if err := req.Validate(s.now().UTC()); err != nil {
		return nil, err
	}

	l, err := s.listings.GetByID(ctx, req.Listing)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, errors.ErrListingInactive
	}

	nights := Nights(req.StartDate.Time, req.EndDate.Time)
	total := l.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	if total.GreaterThan(validation.MaxAmount) {
		return nil, errors.NewValidationFieldError("total_price",
			fmt.Sprintf("total_price must not exceed %s", validation.MaxAmount.StringFixed(2)), errors.ErrCodeInvalidAmount)
	}
	b := &bookingDatamodel.Booking{
		ListingID:  l.ID,
		UserID:     actor.ID,
		StartDate:  req.StartDate.Time,
		EndDate:    req.EndDate.Time,
		TotalPrice: total,
		Status:     bookingDatamodel.StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("failed to create booking", "listing_id", l.ID, "user_id", actor.ID, "error", err)
		return nil, fmt.Errorf("create booking: %w", err)
	}
	b.Listing = *l

	s.logger.Info("booking created",
		"booking_id", b.ID,
		"listing_id", l.ID,
		"nights", nights,
		"total_price", b.TotalPrice.StringFixed(2))

	s.notifier.BookingCreated(ctx, actor.Email, b.ID, l.Title, b.StartDate, b.EndDate)

	return FromDataModel(b), nil
}

func (s *Service) ListBookings(ctx context.Context, actor Actor) ([]*Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromDataModel(b))
	}
	return out, nil
}

func (s *Service) GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	b, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(b), nil
}

func (s *Service) CancelBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	b, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanCancel() {
		return nil, errors.ErrCannotCancel
	}

	applied, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !applied {
		return nil, errors.ErrCannotCancel
	}

	s.logger.Info("booking canceled", "booking_id", id, "previous_status", b.Status)
	b.Status = bookingDatamodel.StatusCanceled
	return FromDataModel(b), nil
}

func (s *Service) load(ctx context.Context, actor Actor, id uuid.UUID) (*bookingDatamodel.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b) {
		s.logger.Warn("booking access denied", "booking_id", id, "user_id", actor.ID)
		return nil, errors.ErrForbiddenAccess
	}
	return b, nil
}
