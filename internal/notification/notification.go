package notification

import (
	"context"
	"fmt"
	"strings"
)

const (
	JobPaymentConfirmation = "send_payment_confirmation_email"
	JobBookingConfirmation = "send_booking_confirmation_email"
)

type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type PaymentConfirmationArgs struct {
	Email     string `json:"email"`
	BookingID string `json:"booking_id"`
}

type BookingConfirmationArgs struct {
	Email        string `json:"email"`
	BookingID    string `json:"booking_id"`
	ListingTitle string `json:"listing_title"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

func paymentConfirmationMessage(from string, args PaymentConfirmationArgs) Message {
	return Message{
		From:    from,
		To:      []string{args.Email},
		Subject: "Payment Confirmation",
		Body:    fmt.Sprintf("Your payment for booking %s was successful. Thank you!", args.BookingID),
	}
}

func bookingConfirmationMessage(from string, args BookingConfirmationArgs) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Your booking %s for %s has been received.\n", args.BookingID, args.ListingTitle)
	fmt.Fprintf(&b, "Check-in: %s\nCheck-out: %s\n", args.StartDate, args.EndDate)
	b.WriteString("Complete the payment to confirm your stay. Thank you for booking with us!")

	return Message{
		From:    from,
		To:      []string{args.Email},
		Subject: "Booking Confirmation",
		Body:    b.String(),
	}
}
