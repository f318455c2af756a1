package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trimstudio/booking/internal/booking"
	"github.com/trimstudio/booking/internal/catalog"
	"github.com/trimstudio/booking/internal/http/handlers"
	"github.com/trimstudio/booking/internal/observability/metrics"
	"github.com/trimstudio/booking/pkg/logging"
)

const bookingBody = `{"name":"Jan de Vries","email":"jan@example.com","phone":"0612345678","service":"kids","dateTime":"2025-03-14T13:30:00.000Z","duration":40}`

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, key string) (bool, error) { return false, nil }

func newTestRouter(t *testing.T, mutate func(*Config)) (http.Handler, *booking.InMemoryRepository) {
	t.Helper()

	logger := logging.New("error")
	reg := prometheus.NewRegistry()
	repo := booking.NewInMemoryRepository()
	svc := booking.NewService(booking.ServiceConfig{
		Repository: repo,
		Location:   time.UTC,
		Metrics:    metrics.NewBookingMetrics(reg),
		Logger:     logger,
	})

	cfg := &Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(svc, logger, false),
		HealthHandler:      handlers.NewHealthHandler(nil, logger),
		CatalogHandler:     handlers.NewCatalogHandler(catalog.DefaultSlotWindow),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"*"},
	}
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg), repo
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterBookingFlow(t *testing.T) {
	router, repo := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(bookingBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://anywhere.example")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	rows := repo.List()
	if len(rows) != 1 || rows[0].Duration != 40 {
		t.Fatalf("unexpected rows %+v", rows)
	}

	mrr := httptest.NewRecorder()
	router.ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(mrr.Body.String(), `trimstudio_booking_submissions_total{outcome="created"} 1`) {
		t.Fatalf("expected submission counter in metrics output:\n%s", mrr.Body.String())
	}
}

func TestRouterBookingPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/booking", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") != "POST, OPTIONS" {
		t.Fatalf("unexpected methods header %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}
}

func TestRouterRateLimitedBookingKeepsCORS(t *testing.T) {
	router, repo := newTestRouter(t, func(cfg *Config) { cfg.RateLimiter = denyAll{} })

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(bookingBody))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("rate limited response must still carry the CORS header")
	}
	if len(repo.List()) != 0 {
		t.Fatal("no row expected for a rejected request")
	}
}

func TestRouterCatalog(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set("Origin", "https://trimstudio.example")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://trimstudio.example" {
		t.Fatalf("expected echoed origin, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	var resp handlers.CatalogResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slots) == 0 {
		t.Fatal("expected slots")
	}
}

func TestRouterBookingRejectsGet(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/booking", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
