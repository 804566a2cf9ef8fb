package app

import (
	"context"
	"net/http"

	"contribution-tracker-go/internal/config"
	"contribution-tracker-go/internal/db"
	analyticsdomain "contribution-tracker-go/internal/domain/analytics"
	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	transferdomain "contribution-tracker-go/internal/domain/transfer"
	"contribution-tracker-go/internal/metrics"
	"contribution-tracker-go/internal/repository/inmemory"
	trackerrepo "contribution-tracker-go/internal/repository/tracker"
	"contribution-tracker-go/internal/transport/httpserver"
	"contribution-tracker-go/internal/transport/httpserver/handler"
	"contribution-tracker-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB

	Tracker   *trackerdomain.Service
	Analytics *analyticsdomain.Service
	Transfer  *transferdomain.Service
}

// Services wires the store and domain services without the HTTP layer.
type Services struct {
	DB        *gorm.DB
	Tracker   *trackerdomain.Service
	Analytics *analyticsdomain.Service
	Transfer  *transferdomain.Service
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	services, err := NewServices(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.Tracker.SeedOnEmpty {
		if _, err := services.Transfer.SeedIfEmpty(ctx); err != nil {
			_ = db.Close(services.DB)
			return nil, err
		}
	}

	log.Info("app: initializing router")
	var reg *prometheus.Registry
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			metrics.NewStoreCollector(services.Tracker, log),
		)
	}
	handlers := handler.New(services.Tracker, services.Analytics, services.Transfer, log)
	router := httpserver.NewRouter(cfg, handlers, reg)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         services.DB,
		Tracker:    services.Tracker,
		Analytics:  services.Analytics,
		Transfer:   services.Transfer,
	}, nil
}

// NewServices opens the database, applies migrations and builds the
// domain services on top of it.
func NewServices(ctx context.Context, cfg config.Config, log logger.Logger) (*Services, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	migrator := db.NewMigrator(dbConn, cfg.DB)
	if err := migrator.Up(ctx); err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	loc, err := cfg.Tracker.Location()
	if err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	repo := trackerrepo.NewGorm(dbConn, migrator)
	tracker := trackerdomain.NewServiceWithCache(repo, inmemory.NewInMemorySnapshotCache(), cfg.Tracker.SnapshotCacheTTL).InLocation(loc)

	return &Services{
		DB:        dbConn,
		Tracker:   tracker,
		Analytics: analyticsdomain.NewService(tracker, loc, cfg.Tracker.TrendMonths),
		Transfer:  transferdomain.NewService(tracker, log).InLocation(loc),
	}, nil
}

func (s *Services) Close() error {
	return db.Close(s.DB)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	return db.Close(a.db)
}
