package payment

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errors "github.com/alxtravel/travel-booking/internal"
	paymentDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/payment"
	gatewaytypes "github.com/alxtravel/travel-booking/internal/core/datamodel/paymentgateway"
	"github.com/alxtravel/travel-booking/internal/paymentgateway"
)

// RepositoryAPI is the payment persistence contract. Lookups return
// errors.ErrPaymentNotFound when nothing matches.
type RepositoryAPI interface {
	Create(ctx context.Context, p *paymentDatamodel.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*paymentDatamodel.Payment, error)
	GetByTransactionID(ctx context.Context, txRef string) (*paymentDatamodel.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*paymentDatamodel.Payment, error)
	// TransitionStatus moves a payment from one status to another and
	// reports whether the row was still in the from status.
	TransitionStatus(ctx context.Context, txRef string, from, to paymentDatamodel.Status) (bool, error)
	// Rearm resets a Failed payment to Pending under a new transaction
	// reference and reports whether the row was still Failed.
	Rearm(ctx context.Context, id uuid.UUID, txRef string, amount decimal.Decimal) (bool, error)
}

// BookingProvider resolves the booking a payment settles. Lookups return
// errors.ErrBookingNotFound when nothing matches.
type BookingProvider interface {
	GetPayableBooking(ctx context.Context, id uuid.UUID) (*PayableBooking, error)
	ConfirmBooking(ctx context.Context, id uuid.UUID) (bool, error)
}

type Gateway interface {
	InitializeTransaction(ctx context.Context, req *gatewaytypes.InitializeRequest) (*gatewaytypes.InitializeResponse, error)
	VerifyTransaction(ctx context.Context, txRef string) (*gatewaytypes.VerifyResponse, error)
}

type Notifier interface {
	PaymentConfirmed(ctx context.Context, email string, bookingID uuid.UUID)
}

type ServiceAPI interface {
	InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, txRef string) (*VerifyResult, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
}

type Config struct {
	Currency    string
	ReturnURL   string
	CallbackURL string
}

type Service struct {
	repo     RepositoryAPI
	bookings BookingProvider
	gateway  Gateway
	notifier Notifier
	config   Config
	logger   *slog.Logger
	newTxRef func() string
}

func NewService(repo RepositoryAPI, bookings BookingProvider, gateway Gateway, notifier Notifier, config Config, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		gateway:  gateway,
		notifier: notifier,
		config:   config,
		logger:   logger,
		newTxRef: uuid.NewString,
	}
}

// WithTxRefGenerator replaces the transaction reference generator.
func (s *Service) WithTxRefGenerator(gen func() string) *Service {
	s.newTxRef = gen
	return s
}

// InitiatePayment opens a gateway checkout for a booking and records the
// payment as Pending. Nothing is persisted unless the gateway accepts the
// charge. A booking whose previous payment failed reuses that payment row.
func (s *Service) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("payment initiation validation failed", "error", err)
		return nil, err
	}

	booking, err := s.bookings.GetPayableBooking(ctx, req.Booking)
	if err != nil {
		if stdErrors.Is(err, errors.ErrBookingNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		s.logger.Error("failed to load booking for payment", "error", err, "booking_id", req.Booking)
		return nil, errors.NewInternalError("failed to load booking", err)
	}

	if !req.Amount.Equal(booking.TotalPrice) {
		s.logger.Warn("payment amount differs from booking total",
			"booking_id", booking.ID,
			"amount", req.Amount.StringFixed(2),
			"total_price", booking.TotalPrice.StringFixed(2))
	}

	existing, err := s.repo.GetByBookingID(ctx, booking.ID)
	switch {
	case err == nil:
		if existing.Status != paymentDatamodel.StatusFailed {
			s.logger.Warn("payment already exists for booking",
				"booking_id", booking.ID,
				"payment_id", existing.ID,
				"status", existing.Status)
			return nil, errors.ErrPaymentExists
		}
	case stdErrors.Is(err, errors.ErrPaymentNotFound):
		existing = nil
	default:
		s.logger.Error("failed to check existing payment", "error", err, "booking_id", booking.ID)
		return nil, errors.NewInternalError("failed to check existing payment", err)
	}

	txRef := s.newTxRef()
	resp, err := s.gateway.InitializeTransaction(ctx, &gatewaytypes.InitializeRequest{
		Amount:      req.Amount,
		Currency:    s.config.Currency,
		Email:       booking.Email,
		FirstName:   booking.FirstName,
		LastName:    booking.LastName,
		TxRef:       txRef,
		ReturnURL:   s.config.ReturnURL,
		CallbackURL: s.config.CallbackURL,
	})
	if err != nil {
		s.logger.Warn("gateway rejected payment initiation",
			"error", err,
			"booking_id", booking.ID,
			"tx_ref", txRef)
		return nil, initiationError(err)
	}

	if resp.Data.TxRef != "" {
		txRef = resp.Data.TxRef
	}

	var record *paymentDatamodel.Payment
	if existing == nil {
		record, err = s.createPayment(ctx, booking.ID, req.Amount, txRef)
	} else {
		record, err = s.rearmPayment(ctx, existing, req.Amount, txRef)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment initiated",
		"payment_id", record.ID,
		"booking_id", booking.ID,
		"tx_ref", txRef,
		"amount", req.Amount.StringFixed(2))

	return &InitiatePaymentResponse{
		Payment:     NewPayment(record),
		CheckoutURL: resp.Data.CheckoutURL,
	}, nil
}

func (s *Service) createPayment(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal, txRef string) (*paymentDatamodel.Payment, error) {
	record := &paymentDatamodel.Payment{
		BookingID:     bookingID,
		Amount:        amount,
		PaymentMethod: paymentDatamodel.DefaultMethod,
		TransactionID: &txRef,
		Status:        paymentDatamodel.StatusPending,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if stdErrors.Is(err, errors.ErrPaymentExists) {
			return nil, errors.ErrPaymentExists
		}
		s.logger.Error("failed to persist payment", "error", err, "booking_id", bookingID, "tx_ref", txRef)
		return nil, errors.NewInternalError("failed to create payment record", err)
	}
	return record, nil
}

func (s *Service) rearmPayment(ctx context.Context, existing *paymentDatamodel.Payment, amount decimal.Decimal, txRef string) (*paymentDatamodel.Payment, error) {
	applied, err := s.repo.Rearm(ctx, existing.ID, txRef, amount)
	if err != nil {
		s.logger.Error("failed to re-arm payment", "error", err, "payment_id", existing.ID, "tx_ref", txRef)
		return nil, errors.NewInternalError("failed to update payment record", err)
	}
	if !applied {
		s.logger.Warn("payment changed state during re-initiation", "payment_id", existing.ID)
		return nil, errors.ErrPaymentStateConflict
	}

	record, err := s.repo.GetByID(ctx, existing.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to reload payment record", err)
	}
	return record, nil
}

func initiationError(err error) *errors.AppError {
	var gwErr *paymentgateway.GatewayError
	if stdErrors.As(err, &gwErr) && gwErr.Message != "" {
		return errors.NewExternalError(gwErr.Message, errors.ErrCodePaymentInitFailed).WithCause(err)
	}
	if gwErr != nil {
		return errors.NewExternalError(MessageInitiationFailed, errors.ErrCodePaymentInitFailed).WithCause(err)
	}
	return errors.NewExternalError(MessageInitiationFailed, errors.ErrCodeGatewayUnreachable).WithCause(err)
}

// VerifyPayment settles the Pending payment identified by txRef from the
// gateway's answer. Any gateway failure, including a timeout, settles it as
// Failed. The transition happens at most once; later calls report the
// stored outcome without contacting the gateway.
func (s *Service) VerifyPayment(ctx context.Context, txRef string) (*VerifyResult, error) {
	txRef = strings.TrimSpace(txRef)
	if txRef == "" {
		return nil, errors.NewValidationFieldError("transaction_id", "transaction_id is required", errors.ErrCodeValidationFailed)
	}

	record, err := s.repo.GetByTransactionID(ctx, txRef)
	if err != nil {
		if stdErrors.Is(err, errors.ErrPaymentNotFound) {
			s.logger.Warn("verification for unknown transaction", "tx_ref", txRef)
			return nil, errors.ErrPaymentNotFound
		}
		s.logger.Error("failed to load payment", "error", err, "tx_ref", txRef)
		return nil, errors.NewInternalError("failed to load payment", err)
	}

	if record.Status == paymentDatamodel.StatusCompleted {
		s.logger.Info("payment already settled", "payment_id", record.ID, "tx_ref", txRef, "status", record.Status)
		return &VerifyResult{Status: record.Status, Payment: NewPayment(record)}, nil
	}

	// A Failed payment is asked again under the same reference: a timed-out
	// verify may have missed a charge that did go through.
	from := record.Status
	target := paymentDatamodel.StatusCompleted
	if _, err := s.gateway.VerifyTransaction(ctx, txRef); err != nil {
		s.logger.Warn("gateway did not confirm payment",
			"error", err,
			"tx_ref", txRef,
			"status", from,
			"timeout", paymentgateway.IsTimeout(err))
		if from == paymentDatamodel.StatusFailed {
			return &VerifyResult{Status: from, Payment: NewPayment(record)}, nil
		}
		target = paymentDatamodel.StatusFailed
	}

	applied, err := s.repo.TransitionStatus(ctx, txRef, from, target)
	if err != nil {
		s.logger.Error("failed to update payment status", "error", err, "tx_ref", txRef, "status", target)
		return nil, errors.NewInternalError("failed to update payment status", err)
	}

	current, err := s.repo.GetByTransactionID(ctx, txRef)
	if err != nil {
		// Re-initiation may have replaced the reference meanwhile.
		if stdErrors.Is(err, errors.ErrPaymentNotFound) {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.NewInternalError("failed to reload payment", err)
	}

	if !applied {
		s.logger.Info("payment settled concurrently", "payment_id", current.ID, "tx_ref", txRef, "status", current.Status)
		return &VerifyResult{Status: current.Status, Payment: NewPayment(current)}, nil
	}

	s.logger.Info("payment settled", "payment_id", current.ID, "tx_ref", txRef, "status", target)

	if target == paymentDatamodel.StatusCompleted {
		s.afterCompleted(ctx, current)
	}

	return &VerifyResult{Status: target, Payment: NewPayment(current)}, nil
}

// afterCompleted runs the side effects of a completed payment. Failures are
// logged only; the payment outcome stands.
func (s *Service) afterCompleted(ctx context.Context, record *paymentDatamodel.Payment) {
	booking, err := s.bookings.GetPayableBooking(ctx, record.BookingID)
	if err != nil {
		s.logger.Error("failed to load booking for payment confirmation",
			"error", err,
			"payment_id", record.ID,
			"booking_id", record.BookingID)
		return
	}

	s.notifier.PaymentConfirmed(ctx, booking.Email, booking.ID)

	confirmed, err := s.bookings.ConfirmBooking(ctx, booking.ID)
	if err != nil {
		s.logger.Error("failed to confirm booking", "error", err, "booking_id", booking.ID)
		return
	}
	if !confirmed {
		s.logger.Warn("booking was not pending, left unchanged", "booking_id", booking.ID)
	}
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrPaymentNotFound) {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return NewPayment(record), nil
}
