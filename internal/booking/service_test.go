package booking_test

import (
	"context"
	stdErrors "errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/booking"
	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
)

var _ = Describe("BookingService", func() {
	var (
		service  *booking.Service
		repo     *mockBookingRepository
		notifier *mockNotifier
		listing  *listingDatamodel.Listing
		guest    booking.Actor
		ctx      context.Context
		today    time.Time
	)

	date := func(s string) booking.Date {
		t, err := time.Parse(time.DateOnly, s)
		Expect(err).NotTo(HaveOccurred())
		return booking.Date{Time: t}
	}

	BeforeEach(func() {
		ctx = context.Background()
		today = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
		repo = newMockBookingRepository()
		notifier = &mockNotifier{}
		listing = &listingDatamodel.Listing{
			ID:            uuid.New(),
			Title:         "Lakeside Cabin",
			PricePerNight: decimal.RequireFromString("50.00"),
			IsActive:      true,
		}
		listings := &mockListingLookup{listings: map[uuid.UUID]*listingDatamodel.Listing{listing.ID: listing}}
		guest = booking.Actor{ID: uuid.New(), Email: "guest@example.com"}

		service = booking.NewService(repo, listings, notifier, slog.New(slog.NewTextHandler(io.Discard, nil))).
			WithClock(func() time.Time { return today })
	})

	Describe("CreateBooking", func() {
		It("should price the stay per night and notify the guest", func() {
			// Given a three night stay at 50.00 per night
			req := booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-12"),
				EndDate:   date("2026-03-15"),
			}

			// When the booking is created
			b, err := service.CreateBooking(ctx, guest, req)

			// Then the total covers every night
			Expect(err).NotTo(HaveOccurred())
			Expect(b.TotalPrice).To(Equal("150.00"))
			Expect(b.Nights).To(Equal(3))
			Expect(b.Status).To(Equal(bookingDatamodel.StatusPending))
			Expect(b.ListingTitle).To(Equal("Lakeside Cabin"))
			Expect(b.StartDate).To(Equal("2026-03-12"))

			// And a confirmation is dispatched
			sent := notifier.notifications()
			Expect(sent).To(HaveLen(1))
			Expect(sent[0].Email).To(Equal("guest@example.com"))
			Expect(sent[0].BookingID).To(Equal(b.ID))
			Expect(sent[0].ListingTitle).To(Equal("Lakeside Cabin"))
		})

		It("should allow a stay starting today", func() {
			_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-10"),
				EndDate:   date("2026-03-11"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("should reject invalid dates",
			func(start, end, message string) {
				_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
					Listing:   listing.ID,
					StartDate: date(start),
					EndDate:   date(end),
				})

				appErr, ok := errors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(400))
				Expect(appErr.GetDetailedMessage()).To(Equal(message))
				Expect(repo.bookings).To(BeEmpty())
				Expect(notifier.notifications()).To(BeEmpty())
			},
			Entry("start in the past", "2026-03-09", "2026-03-12", "start_date cannot be in the past"),
			Entry("end equal to start", "2026-03-12", "2026-03-12", "end_date must be after start_date"),
			Entry("end before start", "2026-03-12", "2026-03-11", "end_date must be after start_date"),
			Entry("stay longer than a year", "2026-03-12", "2027-03-13", "end_date must be within 365 days of start_date"),
			Entry("stay centuries long", "2026-03-12", "2400-01-01", "end_date must be within 365 days of start_date"),
		)

		It("should accept a stay of exactly the maximum length", func() {
			b, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-12"),
				EndDate:   date("2027-03-12"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(b.Nights).To(Equal(booking.MaxStayNights))
		})

		It("should reject a total the price column cannot hold", func() {
			// Given a listing priced at the column maximum
			listing.PricePerNight = decimal.RequireFromString("99999999.99")

			// When two nights are booked
			_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-12"),
				EndDate:   date("2026-03-14"),
			})

			// Then nothing is stored or dispatched
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.GetDetailedMessage()).To(Equal("total_price must not exceed 99999999.99"))
			Expect(repo.bookings).To(BeEmpty())
			Expect(notifier.notifications()).To(BeEmpty())
		})

		It("should require the listing and dates", func() {
			_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{})

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(Equal("listing is required; start_date is required; end_date is required"))
		})

		It("should return ErrListingNotFound for an unknown listing", func() {
			_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   uuid.New(),
				StartDate: date("2026-03-12"),
				EndDate:   date("2026-03-13"),
			})
			Expect(err).To(MatchError(errors.ErrListingNotFound))
		})

		It("should refuse inactive listings", func() {
			listing.IsActive = false

			_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-12"),
				EndDate:   date("2026-03-13"),
			})
			Expect(err).To(MatchError(errors.ErrListingInactive))
		})

		It("should not notify when the booking cannot be stored", func() {
			repo.createErr = stdErrors.New("connection reset")

			_, err := service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-12"),
				EndDate:   date("2026-03-13"),
			})

			Expect(err).To(MatchError(ContainSubstring("connection reset")))
			Expect(notifier.notifications()).To(BeEmpty())
		})
	})

	Describe("access and cancellation", func() {
		var existing *booking.Booking

		BeforeEach(func() {
			var err error
			existing, err = service.CreateBooking(ctx, guest, booking.CreateBookingRequest{
				Listing:   listing.ID,
				StartDate: date("2026-03-12"),
				EndDate:   date("2026-03-14"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list only the caller's bookings", func() {
			other := booking.Actor{ID: uuid.New(), Email: "other@example.com"}

			mine, err := service.ListBookings(ctx, guest)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))

			theirs, err := service.ListBookings(ctx, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(theirs).To(BeEmpty())
		})

		It("should forbid other guests from reading a booking", func() {
			other := booking.Actor{ID: uuid.New()}

			_, err := service.GetBooking(ctx, other, existing.ID)
			Expect(err).To(MatchError(errors.ErrForbiddenAccess))
		})

		It("should let admins read any booking", func() {
			admin := booking.Actor{ID: uuid.New(), IsAdmin: true}

			b, err := service.GetBooking(ctx, admin, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.ID).To(Equal(existing.ID))
		})

		It("should return ErrBookingNotFound for an unknown booking", func() {
			_, err := service.GetBooking(ctx, guest, uuid.New())
			Expect(err).To(MatchError(errors.ErrBookingNotFound))
		})

		It("should cancel a pending booking once", func() {
			canceled, err := service.CancelBooking(ctx, guest, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(canceled.Status).To(Equal(bookingDatamodel.StatusCanceled))

			_, err = service.CancelBooking(ctx, guest, existing.ID)
			Expect(err).To(MatchError(errors.ErrCannotCancel))
		})

		It("should cancel a confirmed booking", func() {
			repo.bookings[existing.ID].Status = bookingDatamodel.StatusConfirmed

			canceled, err := service.CancelBooking(ctx, guest, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(canceled.Status).To(Equal(bookingDatamodel.StatusCanceled))
		})
	})
})
