package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimstudio/booking/pkg/logging"
)

const validBody = `{"name":"Jan de Vries","email":"jan@example.com","phone":"0612345678","service":"haircut","barber":"tony","date":"2025-03-14T00:00:00.000Z","time":"1:30 PM","dateTime":"2025-03-14T13:30:00.000Z","duration":45,"notes":""}`

func newTestHandler(repo Repository, confirmer Confirmer, requireEmail, exposeDetails bool) *Handler {
	cfg := ServiceConfig{
		Repository:   repo,
		RequireEmail: requireEmail,
		Location:     time.UTC,
		Logger:       logging.New("error"),
	}
	if confirmer != nil {
		cfg.Confirmer = confirmer
	}
	return NewHandler(NewService(cfg), logging.New("error"), exposeDetails)
}

func postBooking(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	return rr
}

func assertCORS(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestCreateSuccessEnvelope(t *testing.T) {
	repo := NewInMemoryRepository()
	confirmer := &stubConfirmer{}
	h := newTestHandler(repo, confirmer, false, false)

	rr := postBooking(h, validBody)

	require.Equal(t, http.StatusOK, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, "Appointment booked successfully", raw["message"])
	data, ok := raw["data"].(map[string]any)
	require.True(t, ok, "data should be an object")
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, float64(45), data["duration"])
	assert.Equal(t, "tony", data["barber"])
	assert.Nil(t, data["notes"])
	assert.NotEmpty(t, data["id"])
	assert.NotEmpty(t, data["created_at"])

	assert.Len(t, repo.List(), 1)
	assert.Len(t, confirmer.calls, 1)
}

func TestCreateEmailFailureStillReturns200(t *testing.T) {
	repo := NewInMemoryRepository()
	h := newTestHandler(repo, &stubConfirmer{err: errors.New("smtp down")}, false, false)

	rr := postBooking(h, validBody)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, repo.List(), 1)
}

func TestCreateMissingFields(t *testing.T) {
	repo := NewInMemoryRepository()
	h := newTestHandler(repo, nil, false, false)

	rr := postBooking(h, `{"name":"Jan","phone":"","service":"haircut"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "Missing required fields: email, phone, dateTime", decodeError(t, rr).Error)
	assert.Empty(t, repo.List())
}

func TestCreateInvalidBody(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository(), nil, false, false)

	rr := postBooking(h, `{"name":`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "Invalid request body", decodeError(t, rr).Error)
}

func TestCreateUnparsableDateTimeIsStoreFailure(t *testing.T) {
	repo := NewInMemoryRepository()
	confirmer := &stubConfirmer{}
	h := newTestHandler(repo, confirmer, false, true)

	body := strings.Replace(validBody, "2025-03-14T13:30:00.000Z", "tomorrow at 3", 1)
	rr := postBooking(h, body)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assertCORS(t, rr)
	resp := decodeError(t, rr)
	assert.Equal(t, "Failed to book appointment", resp.Error)
	assert.Contains(t, resp.Details, "tomorrow at 3")
	assert.Empty(t, repo.List())
	assert.Empty(t, confirmer.calls)
}

func TestCreateInsertFailureHidesDetailsInProduction(t *testing.T) {
	repo := &failingRepository{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}
	confirmer := &stubConfirmer{}
	h := newTestHandler(repo, confirmer, false, false)

	rr := postBooking(h, validBody)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assertCORS(t, rr)
	resp := decodeError(t, rr)
	assert.Equal(t, "Failed to book appointment", resp.Error)
	assert.Empty(t, resp.Details)
	assert.Empty(t, confirmer.calls)
}

func TestCreateInsertFailureExposesDetailsOutsideProduction(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Message: `relation "appointments" does not exist`}
	h := newTestHandler(&failingRepository{err: pgErr}, nil, false, true)

	rr := postBooking(h, validBody)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, `relation "appointments" does not exist`, resp.Error)
	assert.Contains(t, resp.Details, "42P01")
}

func TestCreateEmailNotConfigured(t *testing.T) {
	repo := NewInMemoryRepository()
	h := newTestHandler(repo, nil, true, false)

	rr := postBooking(h, validBody)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "Server configuration error - Email service not configured", decodeError(t, rr).Error)
	assert.Empty(t, repo.List())
}

func TestPreflight(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository(), nil, false, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/booking", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rr := httptest.NewRecorder()
	h.Preflight(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assertCORS(t, rr)
	assert.Empty(t, rr.Body.String())
}
