package bookingform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/trimstudio/booking/internal/booking"
	"github.com/trimstudio/booking/pkg/logging"
)

// ToastKind distinguishes success and failure toasts.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification shown after a submission.
type Toast struct {
	Kind        ToastKind
	Title       string
	Description string
}

// Notifier displays toasts.
type Notifier interface {
	Notify(t Toast)
}

// WriterNotifier prints toasts as two lines of text.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(t Toast) {
	mark := "✓"
	if t.Kind == ToastError {
		mark = "✗"
	}
	fmt.Fprintf(n.W, "%s %s\n  %s\n", mark, t.Title, t.Description)
}

// Submitter delivers a built submission. *Client implements it.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*booking.Appointment, error)
}

const fallbackFailure = "Please try again or contact us directly."

// Form ties validation, building, submission and notification together.
// It keeps no state between submissions.
type Form struct {
	validator *Validator
	submitter Submitter
	notifier  Notifier
	loc       *time.Location
	logger    *logging.Logger
}

// NewForm wires a Form. A nil validator uses the default slot window.
func NewForm(v *Validator, submitter Submitter, notifier Notifier, loc *time.Location, logger *logging.Logger) *Form {
	if v == nil {
		v = defaultValidator
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Form{validator: v, submitter: submitter, notifier: notifier, loc: loc, logger: logger}
}

// Submit validates data and, when valid, sends it once. Field errors are
// returned without a request or a toast. Every sent submission ends in
// exactly one toast. The caller's data is left as is after success.
func (f *Form) Submit(ctx context.Context, data FormData) (*booking.Appointment, FieldErrors, error) {
	if errs := f.validator.Validate(data); len(errs) > 0 {
		return nil, errs, nil
	}

	sub, err := Build(data, f.loc)
	if err != nil {
		f.fail(err)
		return nil, nil, err
	}
	f.logger.Debug("sending booking request", "service", sub.Service, "date_time", sub.DateTime, "duration", sub.Duration)

	appt, err := f.submitter.Submit(ctx, sub)
	if err != nil {
		f.fail(err)
		return nil, nil, err
	}

	f.notifier.Notify(Toast{
		Kind:        ToastSuccess,
		Title:       "Appointment Booked!",
		Description: fmt.Sprintf("Your appointment for %s has been scheduled. Confirmation email sent.", data.Service),
	})
	return appt, nil, nil
}

// fail shows the server's message when there is one. Transport and build
// errors are logged but never shown.
func (f *Form) fail(err error) {
	f.logger.Warn("booking error", "error", err)
	desc := fallbackFailure
	var submitErr *SubmitError
	if errors.As(err, &submitErr) && submitErr.Message != "" {
		desc = submitErr.Message
	}
	f.notifier.Notify(Toast{Kind: ToastError, Title: "Booking Failed", Description: desc})
}
