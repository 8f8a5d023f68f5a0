package payment_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/payment"
	gatewaytypes "github.com/alxtravel/travel-booking/internal/core/datamodel/paymentgateway"
	paymentPkg "github.com/alxtravel/travel-booking/internal/payment"
)

type mockPaymentRepository struct {
	mu          sync.Mutex
	payments    map[uuid.UUID]*payment.Payment
	createError error
	getError    error
	updateError error
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{payments: make(map[uuid.UUID]*payment.Payment)}
}

func (m *mockPaymentRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func (m *mockPaymentRepository) put(p *payment.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = payment.DefaultMethod
	}
	cp := *p
	m.payments[p.ID] = &cp
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if m.createError != nil {
		return m.createError
	}
	m.mu.Lock()
	for _, existing := range m.payments {
		if existing.BookingID == p.BookingID {
			m.mu.Unlock()
			return errors.ErrPaymentExists
		}
	}
	m.mu.Unlock()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.put(p)
	return nil
}

func (m *mockPaymentRepository) find(match func(*payment.Payment) bool) (*payment.Payment, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.ErrPaymentNotFound
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return m.find(func(p *payment.Payment) bool { return p.ID == id })
}

func (m *mockPaymentRepository) GetByTransactionID(ctx context.Context, txRef string) (*payment.Payment, error) {
	return m.find(func(p *payment.Payment) bool { return p.TxRef() == txRef })
}

func (m *mockPaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	return m.find(func(p *payment.Payment) bool { return p.BookingID == bookingID })
}

func (m *mockPaymentRepository) TransitionStatus(ctx context.Context, txRef string, from, to payment.Status) (bool, error) {
	if m.updateError != nil {
		return false, m.updateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TxRef() == txRef && p.Status == from {
			p.Status = to
			p.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPaymentRepository) Rearm(ctx context.Context, id uuid.UUID, txRef string, amount decimal.Decimal) (bool, error) {
	if m.updateError != nil {
		return false, m.updateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.Status != payment.StatusFailed {
		return false, nil
	}
	p.Status = payment.StatusPending
	p.TransactionID = &txRef
	p.Amount = amount
	return true, nil
}

type mockBookingProvider struct {
	bookings   map[uuid.UUID]*paymentPkg.PayableBooking
	confirmed  []uuid.UUID
	getError   error
	confirmErr error
}

func newMockBookingProvider() *mockBookingProvider {
	return &mockBookingProvider{bookings: make(map[uuid.UUID]*paymentPkg.PayableBooking)}
}

func (m *mockBookingProvider) GetPayableBooking(ctx context.Context, id uuid.UUID) (*paymentPkg.PayableBooking, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, errors.ErrBookingNotFound
	}
	return b, nil
}

func (m *mockBookingProvider) ConfirmBooking(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	m.confirmed = append(m.confirmed, id)
	return true, nil
}

type mockGateway struct {
	mu            sync.Mutex
	initCalls     []*gatewaytypes.InitializeRequest
	verifyCalls   []string
	initResponse  *gatewaytypes.InitializeResponse
	initError     error
	verifyError   error
	verifyBarrier chan struct{}
}

func (m *mockGateway) InitializeTransaction(ctx context.Context, req *gatewaytypes.InitializeRequest) (*gatewaytypes.InitializeResponse, error) {
	m.mu.Lock()
	m.initCalls = append(m.initCalls, req)
	m.mu.Unlock()
	if m.initError != nil {
		return nil, m.initError
	}
	return m.initResponse, nil
}

func (m *mockGateway) VerifyTransaction(ctx context.Context, txRef string) (*gatewaytypes.VerifyResponse, error) {
	m.mu.Lock()
	m.verifyCalls = append(m.verifyCalls, txRef)
	m.mu.Unlock()
	if m.verifyBarrier != nil {
		<-m.verifyBarrier
	}
	if m.verifyError != nil {
		return nil, m.verifyError
	}
	return &gatewaytypes.VerifyResponse{Status: gatewaytypes.StatusSuccess}, nil
}

func (m *mockGateway) verifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.verifyCalls)
}

type notification struct {
	Email     string
	BookingID uuid.UUID
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (m *mockNotifier) PaymentConfirmed(ctx context.Context, email string, bookingID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, notification{Email: email, BookingID: bookingID})
}

func (m *mockNotifier) notifications() []notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification(nil), m.sent...)
}
