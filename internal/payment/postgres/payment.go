package postgres

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/payment"
	paymentpkg "github.com/alxtravel/travel-booking/internal/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) paymentpkg.RepositoryAPI {
	return &PaymentRepository{
		db: db,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.ErrPaymentExists.WithCause(err)
	}
	return err
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return r.first(ctx, "payment_id = ?", id)
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txRef string) (*payment.Payment, error) {
	return r.first(ctx, "transaction_id = ?", txRef)
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	return r.first(ctx, "booking_id = ?", bookingID)
}

func (r *PaymentRepository) first(ctx context.Context, query string, arg interface{}) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) TransitionStatus(ctx context.Context, txRef string, from, to payment.Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("transaction_id = ? AND status = ?", txRef, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PaymentRepository) Rearm(ctx context.Context, id uuid.UUID, txRef string, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("payment_id = ? AND status = ?", id, payment.StatusFailed).
		Updates(map[string]interface{}{
			"status":         payment.StatusPending,
			"transaction_id": txRef,
			"amount":         amount,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
