package metrics

import "github.com/prometheus/client_golang/prometheus"

// Booking outcome labels.
const (
	OutcomeCreated      = "created"
	OutcomeInvalid      = "invalid"
	OutcomeInsertFailed = "insert_failed"
	OutcomeConfigError  = "config_error"
)

// Confirmation email labels.
const (
	EmailSent    = "sent"
	EmailFailed  = "failed"
	EmailSkipped = "skipped"
)

// BookingMetrics exposes counters/histograms for the booking submission path.
type BookingMetrics struct {
	bookingsTotal *prometheus.CounterVec
	emailsTotal   *prometheus.CounterVec
	bookLatency   *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trimstudio",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trimstudio",
			Subsystem: "booking",
			Name:      "confirmation_emails_total",
			Help:      "Confirmation email attempts by status",
		}, []string{"status"}),
		bookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trimstudio",
			Subsystem: "booking",
			Name:      "submission_latency_seconds",
			Help:      "Latency of booking submissions including the email attempt",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.emailsTotal, m.bookLatency)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
	m.bookLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *BookingMetrics) ObserveEmail(status string) {
	if m == nil {
		return
	}
	m.emailsTotal.WithLabelValues(status).Inc()
}
