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

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blogem/insurance-rates/authenticator"
	"github.com/blogem/insurance-rates/config"
	"github.com/blogem/insurance-rates/controllers"
	"github.com/blogem/insurance-rates/database"
	"github.com/blogem/insurance-rates/httpserver"
	"github.com/blogem/insurance-rates/ingest"
	"github.com/blogem/insurance-rates/logging"
	applog "github.com/blogem/insurance-rates/middleware"
	"github.com/blogem/insurance-rates/repositories"
	"github.com/blogem/insurance-rates/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "logsvc: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.LogServiceFromEnv()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging, "logsvc")
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	db, err := database.InitializeDatabase(cfg.DatabasePath, database.LogsMigrations)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repos := repositories.NewLogRepositories(db)
	srvs := services.NewLogServices(repos, services.NewLogMetrics(registry), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var provider authenticator.Provider
	if cfg.OIDC.Enabled() {
		provider, err = authenticator.NewOpenIDProvider(ctx, authenticator.Config{
			IssuerURL:    cfg.OIDC.IssuerURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize OpenID Connect provider: %w", err)
		}
	} else {
		logger.Warn("OIDC_ISSUER_URL not set; log queries are not authenticated")
	}

	if len(cfg.KafkaBrokers) > 0 {
		consumer, err := ingest.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, cfg.KafkaTopic, srvs.Logs,
			ingest.WithLogger(logger))
		if err != nil {
			return err
		}
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("kafka ingestion stopped", "error", err)
			}
		}()
		defer consumer.Close()
		logger.Info("kafka ingestion enabled", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroup)
	}

	ctrl := controllers.NewLogControllers(srvs, db, provider)
	router, err := setupRouter(ctrl, registry, logger, provider, cfg.OIDC.SecureCookies)
	if err != nil {
		return err
	}

	logger.Info("log service starting", "addr", cfg.Addr, "database", cfg.DatabasePath)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), 10*time.Second, logger)
}

// setupRouter configures all routes. Operator login routes and the session
// middleware are only mounted when provider is set.
func setupRouter(ctrl *controllers.LogControllers, gatherer prometheus.Gatherer, logger *slog.Logger, provider authenticator.Provider, secureCookies bool) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // OAuth callbacks call the issuer
	r.Use(middleware.StripSlashes)

	if provider != nil {
		sessionHandler, err := session.Sessioner(session.Options{
			Provider:    "memory",
			CookieName:  "logsvc_session",
			Secure:      secureCookies,
			Gclifetime:  3600,
			Maxlifetime: 3600,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize session: %w", err)
		}
		r.Use(sessionHandler)

		r.Get("/auth/login", ctrl.Auth.Login)
		r.Get("/auth/callback", ctrl.Auth.Callback)
		r.Get("/auth/logout", ctrl.Auth.Logout)
		r.With(applog.RequireOperator(provider)).Get("/auth/me", ctrl.Auth.Me)
	}

	r.Get("/health", ctrl.Health.Health)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/logs", func(r chi.Router) {
		// Ingestion is service to service; only reads require an operator.
		r.Post("/", ctrl.Logs.Ingest)
		r.With(applog.RequireOperator(provider)).Get("/", ctrl.Logs.Index)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"route not found"}`)
	})

	return r, nil
}
