package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blogem/insurance-rates/audit"
	"github.com/blogem/insurance-rates/config"
	"github.com/blogem/insurance-rates/controllers"
	"github.com/blogem/insurance-rates/database"
	"github.com/blogem/insurance-rates/httpserver"
	"github.com/blogem/insurance-rates/logging"
	applog "github.com/blogem/insurance-rates/middleware"
	"github.com/blogem/insurance-rates/repositories"
	"github.com/blogem/insurance-rates/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ratesvc: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.RateServiceFromEnv()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging, "ratesvc")
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	db, err := database.InitializeDatabase(cfg.DatabasePath, database.RatesMigrations)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	emitter, closeEmitter, err := newEmitter(cfg.Audit, registry, logger)
	if err != nil {
		return err
	}
	defer closeEmitter()

	repos := repositories.NewRateRepositories(db)
	srvs := services.NewRateServices(repos, emitter, cfg.ImportRatesPath)
	ctrl := controllers.NewRateControllers(srvs, db)

	router := setupRouter(ctrl, registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("rate service starting",
		"addr", cfg.Addr,
		"database", cfg.DatabasePath,
		"audit_transport", cfg.Audit.Transport,
	)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), 10*time.Second, logger)
}

// newEmitter builds the audit dispatcher for the configured transport. The
// returned func drains pending events within the shutdown timeout.
func newEmitter(cfg config.Audit, registry prometheus.Registerer, logger *slog.Logger) (audit.Emitter, func(), error) {
	var transport audit.Transport
	switch cfg.Transport {
	case config.TransportNone:
		logger.Warn("audit delivery disabled; events are discarded")
		return audit.NopEmitter{}, func() {}, nil
	case config.TransportKafka:
		kafka, err := audit.NewKafkaTransport(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		transport = kafka
	default:
		transport = audit.NewHTTPTransport(cfg.LogServiceURL, nil)
	}

	dispatcher := audit.NewDispatcher(transport,
		audit.WithQueueSize(cfg.QueueSize),
		audit.WithWorkers(cfg.Workers),
		audit.WithRetry(cfg.RetryInitial, audit.DefaultConfig().RetryMaxInterval, cfg.RetryMaxElapsed),
		audit.WithMetrics(audit.NewPrometheusMetrics(registry)),
		audit.WithLogger(logger),
	)

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := dispatcher.Close(ctx); err != nil {
			logger.Error("audit dispatcher did not drain cleanly", "error", err, "pending", dispatcher.Pending())
		}
	}
	return dispatcher, closeFn, nil
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.RateControllers, gatherer prometheus.Gatherer, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripSlashes)

	r.Get("/health", ctrl.Health.Health)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", ctrl.Rates.Index)
			r.Post("/", ctrl.Rates.Create)
			r.Get("/{id}", ctrl.Rates.Show)
			r.Put("/{id}", ctrl.Rates.Update)
			r.Patch("/{id}", ctrl.Rates.Patch)
			r.Delete("/{id}", ctrl.Rates.Delete)
		})

		r.Get("/insurance_calculation", ctrl.Calculation.Calculate)

		r.Route("/administration", func(r chi.Router) {
			r.Get("/import_rates", ctrl.Administration.ImportFromSource)
			r.Post("/import_rates", ctrl.Administration.Import)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"route not found"}`)
	})

	return r
}
