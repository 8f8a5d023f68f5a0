package booking_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	errors "github.com/alxtravel/travel-booking/internal"
	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
)

type mockBookingRepository struct {
	bookings  map[uuid.UUID]*bookingDatamodel.Booking
	createErr error
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: make(map[uuid.UUID]*bookingDatamodel.Booking)}
}

func (m *mockBookingRepository) Create(ctx context.Context, b *bookingDatamodel.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookingDatamodel.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, errors.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*bookingDatamodel.Booking, error) {
	var out []*bookingDatamodel.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	b, ok := m.bookings[id]
	if !ok || !b.Status.CanCancel() {
		return false, nil
	}
	b.Status = bookingDatamodel.StatusCanceled
	return true, nil
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

type bookingNotification struct {
	Email        string
	BookingID    uuid.UUID
	ListingTitle string
	Start        time.Time
	End          time.Time
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []bookingNotification
}

func (m *mockNotifier) BookingCreated(ctx context.Context, email string, bookingID uuid.UUID, listingTitle string, start, end time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, bookingNotification{
		Email:        email,
		BookingID:    bookingID,
		ListingTitle: listingTitle,
		Start:        start,
		End:          end,
	})
}

func (m *mockNotifier) notifications() []bookingNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bookingNotification(nil), m.sent...)
}
