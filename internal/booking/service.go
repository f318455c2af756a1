package booking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/trimstudio/booking/internal/catalog"
	"github.com/trimstudio/booking/internal/observability/metrics"
	"github.com/trimstudio/booking/pkg/logging"
)

var bookingTracer = otel.Tracer("trimstudio.internal.booking")

// Confirmer sends the confirmation email for a stored appointment.
type Confirmer interface {
	SendConfirmation(ctx context.Context, appt *Appointment) error
}

// EmailOutcome records what happened to the confirmation email.
type EmailOutcome string

const (
	EmailSent    EmailOutcome = metrics.EmailSent
	EmailFailed  EmailOutcome = metrics.EmailFailed
	EmailSkipped EmailOutcome = metrics.EmailSkipped
)

// Result is the outcome of a successful booking. Email failures are reported
// here instead of as an error because the appointment is already stored.
type Result struct {
	Appointment *Appointment
	Email       EmailOutcome
	EmailErr    *EmailError
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Repository Repository
	// Confirmer is nil when no email provider is configured.
	Confirmer Confirmer
	// RequireEmail rejects every booking before the write while Confirmer is nil.
	RequireEmail bool
	// Location interprets dateTime values that carry no zone.
	Location *time.Location
	Metrics  *metrics.BookingMetrics
	Logger   *logging.Logger
}

// Service books appointments: one insert, then one best-effort email.
type Service struct {
	repo         Repository
	confirmer    Confirmer
	requireEmail bool
	loc          *time.Location
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
}

// NewService constructs a booking service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Repository == nil {
		panic("booking: repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		repo:         cfg.Repository,
		confirmer:    cfg.Confirmer,
		requireEmail: cfg.RequireEmail,
		loc:          cfg.Location,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

// Ready reports ErrEmailNotConfigured when email is required but unavailable.
func (s *Service) Ready() error {
	if s.requireEmail && s.confirmer == nil {
		return ErrEmailNotConfigured
	}
	return nil
}

// Book validates presence of the required fields, stores one pending
// appointment and then attempts exactly one confirmation email.
// Identical requests are stored as separate rows.
func (s *Service) Book(ctx context.Context, req CreateAppointmentRequest) (*Result, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book")
	defer span.End()
	start := time.Now()

	if err := s.Ready(); err != nil {
		s.finish(span, metrics.OutcomeConfigError, start, err)
		return nil, err
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		err := &MissingFieldsError{Fields: missing}
		s.finish(span, metrics.OutcomeInvalid, start, err)
		return nil, err
	}

	dateTime, err := ParseDateTime(req.DateTime, s.loc)
	if err != nil {
		insertErr := &InsertError{Err: err}
		s.logger.Error("failed to store appointment", "error", err, "service", req.Service)
		s.finish(span, metrics.OutcomeInsertFailed, start, insertErr)
		return nil, insertErr
	}

	service := req.Service
	duration := catalog.DurationFor(service)
	if req.Duration != nil && *req.Duration != duration {
		s.logger.Warn("client duration ignored",
			"service", service,
			"client_duration", *req.Duration,
			"duration", duration,
		)
	}
	span.SetAttributes(
		attribute.String("trimstudio.service", service),
		attribute.Int("trimstudio.duration", duration),
	)

	appt, err := s.repo.Insert(ctx, NewAppointment{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Service:  service,
		Barber:   optional(req.Barber),
		DateTime: dateTime,
		Duration: duration,
		Status:   StatusPending,
		Notes:    optional(req.Notes),
	})
	if err != nil {
		insertErr := &InsertError{Err: err}
		s.logger.Error("failed to store appointment", "error", err, "service", service)
		s.finish(span, metrics.OutcomeInsertFailed, start, insertErr)
		return nil, insertErr
	}
	span.SetAttributes(attribute.String("trimstudio.appointment_id", appt.ID))
	s.logger.Info("appointment stored", "appointment_id", appt.ID, "service", service, "date_time", appt.DateTime)

	result := &Result{Appointment: appt, Email: EmailSkipped}
	if s.confirmer != nil {
		if err := s.confirmer.SendConfirmation(ctx, appt); err != nil {
			result.Email = EmailFailed
			result.EmailErr = &EmailError{Err: err}
			span.RecordError(result.EmailErr)
			s.logger.Warn("confirmation email failed, booking kept", "error", err, "appointment_id", appt.ID)
		} else {
			result.Email = EmailSent
		}
	}
	s.metrics.ObserveEmail(string(result.Email))

	s.finish(span, metrics.OutcomeCreated, start, nil)
	return result, nil
}

func (s *Service) finish(span trace.Span, outcome string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		var missing *MissingFieldsError
		if !errors.As(err, &missing) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	s.metrics.ObserveSubmission(outcome, time.Since(start).Seconds())
}
