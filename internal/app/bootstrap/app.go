package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trimstudio/booking/internal/api/router"
	"github.com/trimstudio/booking/internal/booking"
	appconfig "github.com/trimstudio/booking/internal/config"
	"github.com/trimstudio/booking/internal/http/handlers"
	httpmiddleware "github.com/trimstudio/booking/internal/http/middleware"
	"github.com/trimstudio/booking/internal/notify"
	"github.com/trimstudio/booking/internal/observability/metrics"
	"github.com/trimstudio/booking/pkg/logging"
)

// Deps are clients built by the entrypoint. Nil fields are skipped or
// created from the config.
type Deps struct {
	SES      *sesv2.Client
	Registry *prometheus.Registry
}

// App is the wired booking service shared by the HTTP server and the Lambda.
type App struct {
	Handler http.Handler
	Service *booking.Service

	pool    *pgxpool.Pool
	sqlDB   *sql.DB
	closers []func()
}

// Close releases the pool, the Redis client and background goroutines.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// BuildApp wires storage, email, metrics and routing from a validated config.
func BuildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, deps Deps) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	for _, w := range cfg.Warnings {
		logger.Warn("configuration warning", "warning", w)
	}

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	bookingMetrics := metrics.NewBookingMetrics(reg)

	app := &App{}

	var repo booking.Repository
	if cfg.UseMemoryStore {
		logger.Warn("using in-memory appointment store; bookings are lost on restart")
		repo = booking.NewInMemoryRepository()
	} else {
		pool, sqlDB, err := BuildDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.pool, app.sqlDB = pool, sqlDB
		app.closers = append(app.closers, pool.Close, func() { _ = sqlDB.Close() })
		repo = booking.NewPostgresRepository(pool)
	}

	svcCfg := booking.ServiceConfig{
		Repository:   repo,
		RequireEmail: cfg.RequireEmail,
		Location:     cfg.Location,
		Metrics:      bookingMetrics,
		Logger:       logger,
	}
	if sender := BuildEmailSender(cfg, deps.SES, logger); sender != nil {
		svcCfg.Confirmer = notify.NewConfirmations(sender, cfg.Location, logger)
	}
	app.Service = booking.NewService(svcCfg)

	var pinger handlers.Pinger
	if app.sqlDB != nil {
		pinger = app.sqlDB
	}

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(app.Service, logger, !cfg.IsProduction()),
		HealthHandler:      handlers.NewHealthHandler(pinger, logger),
		CatalogHandler:     handlers.NewCatalogHandler(cfg.Slots),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        app.buildLimiter(ctx, cfg, logger),
	})
	return app, nil
}

func (a *App) buildLimiter(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) httpmiddleware.Limiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	if rdb := BuildRedisClient(ctx, cfg, logger, false); rdb != nil {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		limit := int(cfg.RateLimitRPS * 60)
		if limit < 1 {
			limit = 1
		}
		logger.Info("booking rate limit backed by redis", "limit_per_minute", limit)
		return httpmiddleware.NewRedisRateLimiter(rdb, limit, time.Minute, "trimstudio:booking")
	}
	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	a.closers = append(a.closers, limiter.Stop)
	return limiter
}
