package bookingform

import (
	"fmt"
	"time"

	"github.com/trimstudio/booking/internal/booking"
	"github.com/trimstudio/booking/internal/catalog"
)

// ISOLayout renders an instant the way the endpoint expects it: UTC with
// millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Submission is the JSON body POSTed to /api/booking. Date and Time repeat
// the raw picks; DateTime and Duration are derived from them.
type Submission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Barber   string `json:"barber,omitempty"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Notes    string `json:"notes,omitempty"`
	DateTime string `json:"dateTime"`
	Duration int    `json:"duration"`
}

// Build merges the picked date and time slot into one instant in loc and
// looks up the service duration. The same input always yields the same
// Submission.
func Build(data FormData, loc *time.Location) (Submission, error) {
	if loc == nil {
		loc = time.Local
	}
	when, err := booking.CombineDateTime(data.Date, data.Time, loc)
	if err != nil {
		return Submission{}, fmt.Errorf("bookingform: build: %w", err)
	}
	return Submission{
		Name:     data.Name,
		Email:    data.Email,
		Phone:    data.Phone,
		Service:  data.Service,
		Barber:   data.Barber,
		Date:     data.Date.UTC().Format(ISOLayout),
		Time:     data.Time,
		Notes:    data.Notes,
		DateTime: when.UTC().Format(ISOLayout),
		Duration: catalog.DurationFor(data.Service),
	}, nil
}
