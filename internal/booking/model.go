package booking

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment. Only StatusPending is
// ever written by this service.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is a persisted booking row. JSON names follow the table columns.
type Appointment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Barber    *string   `json:"barber"`
	DateTime  time.Time `json:"date_time"`
	Duration  int       `json:"duration"`
	Status    Status    `json:"status"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAppointment is the insert payload handed to a Repository.
type NewAppointment struct {
	Name     string
	Email    string
	Phone    string
	Service  string
	Barber   *string
	DateTime time.Time
	Duration int
	Status   Status
	Notes    *string
}

// CreateAppointmentRequest is the JSON body accepted by POST /api/booking.
// The form also sends its raw date and time fields; they are ignored here.
type CreateAppointmentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Barber   string `json:"barber,omitempty"`
	DateTime string `json:"dateTime"`
	Duration *int   `json:"duration,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// MissingFields lists the absent required fields in declaration order.
// Only empty strings count as absent; whitespace and format are not checked.
func (r *CreateAppointmentRequest) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"service", r.Service},
		{"dateTime", r.DateTime},
	}
	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
