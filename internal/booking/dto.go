package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/core/common/validation"
)

// Date is a calendar day in YYYY-MM-DD form.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dates must be strings in YYYY-MM-DD format")
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

// MaxStayNights caps a single booking.
const MaxStayNights = 365

type CreateBookingRequest struct {
	Listing   uuid.UUID `json:"listing"`
	StartDate Date      `json:"start_date"`
	EndDate   Date      `json:"end_date"`
}

// Validate checks the request against today's date.
func (r *CreateBookingRequest) Validate(today time.Time) *errors.AppError {
	v := validation.NewValidator()
	v.Field("listing", r.Listing).Required()
	v.Field("start_date", r.StartDate.Time).Required().NotPast(today)
	v.Field("end_date", r.EndDate.Time).Required().
		After(r.StartDate.Time, "start_date").
		WithinDays(r.StartDate.Time, "start_date", MaxStayNights)
	return v.Validate()
}
