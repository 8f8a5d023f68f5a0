package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alxtravel/travel-booking/internal/core/jobs"
)

// Dispatcher submits email jobs. Submission errors are logged and swallowed:
// a notification must never fail the request that triggered it.
type Dispatcher struct {
	enqueuer jobs.Enqueuer
	logger   *slog.Logger
}

func NewDispatcher(enqueuer jobs.Enqueuer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{enqueuer: enqueuer, logger: logger}
}

func (d *Dispatcher) PaymentConfirmed(ctx context.Context, email string, bookingID uuid.UUID) {
	d.enqueue(ctx, JobPaymentConfirmation, PaymentConfirmationArgs{
		Email:     email,
		BookingID: bookingID.String(),
	})
}

func (d *Dispatcher) BookingCreated(ctx context.Context, email string, bookingID uuid.UUID, listingTitle string, start, end time.Time) {
	d.enqueue(ctx, JobBookingConfirmation, BookingConfirmationArgs{
		Email:        email,
		BookingID:    bookingID.String(),
		ListingTitle: listingTitle,
		StartDate:    start.Format(time.DateOnly),
		EndDate:      end.Format(time.DateOnly),
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, name string, args interface{}) {
	// The job outlives the request, so the request's cancellation must not
	// abort the submission.
	job, err := d.enqueuer.Enqueue(context.WithoutCancel(ctx), name, args)
	if err != nil {
		d.logger.Error("failed to enqueue notification", "job", name, "error", err)
		return
	}
	d.logger.Debug("notification enqueued", "job", name, "job_id", job.ID)
}
