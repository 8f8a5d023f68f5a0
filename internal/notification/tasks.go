package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alxtravel/travel-booking/internal/core/jobs"
)

type Registrar interface {
	Register(name string, handler jobs.Handler)
}

// Tasks holds the email job handlers. Send failures are reported in the job
// result and never returned as errors.
type Tasks struct {
	mailer Mailer
	from   string
	logger *slog.Logger
}

func NewTasks(mailer Mailer, from string, logger *slog.Logger) *Tasks {
	return &Tasks{mailer: mailer, from: from, logger: logger}
}

func (t *Tasks) Register(r Registrar) {
	r.Register(JobPaymentConfirmation, t.SendPaymentConfirmation)
	r.Register(JobBookingConfirmation, t.SendBookingConfirmation)
}

func (t *Tasks) SendPaymentConfirmation(ctx context.Context, job jobs.Job) (string, error) {
	var args PaymentConfirmationArgs
	if err := job.Decode(&args); err != nil {
		return "", err
	}
	return t.send(ctx, paymentConfirmationMessage(t.from, args)), nil
}

func (t *Tasks) SendBookingConfirmation(ctx context.Context, job jobs.Job) (string, error) {
	var args BookingConfirmationArgs
	if err := job.Decode(&args); err != nil {
		return "", err
	}
	return t.send(ctx, bookingConfirmationMessage(t.from, args)), nil
}

func (t *Tasks) send(ctx context.Context, msg Message) string {
	if err := t.mailer.Send(ctx, msg); err != nil {
		t.logger.Error("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		return fmt.Sprintf("Failed to send email: %v", err)
	}
	return fmt.Sprintf("Email sent to %s", msg.To[0])
}
