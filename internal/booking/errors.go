package booking

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidTimeToken is returned when a slot token is not "H:MM AM|PM".
	ErrInvalidTimeToken = errors.New("booking: invalid time token")

	// ErrInvalidDateTime is returned when dateTime is not an ISO-8601 timestamp.
	// Book reports it inside an InsertError since the row cannot be stored.
	ErrInvalidDateTime = errors.New("booking: invalid dateTime")

	// ErrEmailNotConfigured is returned before any write when confirmation
	// email is required but no sender is configured.
	ErrEmailNotConfigured = errors.New("booking: email service not configured")
)

// MissingFieldsError names the required fields absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// InsertError wraps any datastore failure. Constraint, connectivity and
// schema errors are not distinguished.
type InsertError struct {
	Err error
}

func (e *InsertError) Error() string {
	return "booking: insert appointment: " + e.Err.Error()
}

func (e *InsertError) Unwrap() error { return e.Err }

// PublicMessage returns the driver's own message when the database reported
// one, otherwise a generic failure message.
func (e *InsertError) PublicMessage() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}
	return "Failed to book appointment"
}

// EmailError wraps a failed confirmation send. It is carried in Result and
// never returned from Book.
type EmailError struct {
	Err error
}

func (e *EmailError) Error() string {
	return "booking: confirmation email: " + e.Err.Error()
}

func (e *EmailError) Unwrap() error { return e.Err }
