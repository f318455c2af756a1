package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trimstudio/booking/pkg/logging"
)

const maxRequestBytes = 64 << 10

// Handler serves POST and OPTIONS /api/booking. It sets its own permissive
// CORS headers on every response so any origin can submit the form.
type Handler struct {
	service       *Service
	logger        *logging.Logger
	exposeDetails bool
}

// NewHandler creates a booking handler. exposeDetails adds the error chain to
// 500 responses and must be false in production.
func NewHandler(service *Service, logger *logging.Logger, exposeDetails bool) *Handler {
	if service == nil {
		panic("booking: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger, exposeDetails: exposeDetails}
}

// SuccessResponse is the 200 envelope.
type SuccessResponse struct {
	Success bool         `json:"success"`
	Data    *Appointment `json:"data"`
	Message string       `json:"message"`
}

// ErrorResponse is the 4xx/5xx envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// CORSHeaders adds the booking CORS headers before next runs, so responses
// written by outer middleware (rate limiting, panics) carry them too.
func CORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		next.ServeHTTP(w, r)
	})
}

// Preflight handles OPTIONS /api/booking.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusOK)
}

// Create handles POST /api/booking.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if err := h.service.Ready(); err != nil {
		h.logger.Error("booking rejected: email service not configured")
		h.writeError(w, http.StatusInternalServerError, "Server configuration error - Email service not configured", nil)
		return
	}

	var req CreateAppointmentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	h.logger.Info("received booking", "service", req.Service, "date_time", req.DateTime)

	result, err := h.service.Book(r.Context(), req)
	if err != nil {
		h.handleBookError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    result.Appointment,
		Message: "Appointment booked successfully",
	})
}

func (h *Handler) handleBookError(w http.ResponseWriter, err error) {
	var missing *MissingFieldsError
	var insertErr *InsertError
	switch {
	case errors.As(err, &missing):
		h.writeError(w, http.StatusBadRequest, missing.Error(), nil)
	case errors.Is(err, ErrEmailNotConfigured):
		h.writeError(w, http.StatusInternalServerError, "Server configuration error - Email service not configured", nil)
	case errors.As(err, &insertErr):
		h.logger.Error("booking error", "error", err)
		h.writeError(w, http.StatusInternalServerError, insertErr.PublicMessage(), err)
	default:
		h.logger.Error("booking error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to book appointment", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, cause error) {
	resp := ErrorResponse{Error: message}
	if cause != nil && h.exposeDetails {
		resp.Details = cause.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
