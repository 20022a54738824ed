package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/threatlens/authcore/internal/handlers"
	"github.com/threatlens/authcore/internal/infrastructure/config"
	"github.com/threatlens/authcore/internal/infrastructure/database"
	"github.com/threatlens/authcore/internal/infrastructure/metrics"
	"github.com/threatlens/authcore/internal/repositories/postgres"
	"github.com/threatlens/authcore/internal/services"
	"github.com/threatlens/authcore/internal/services/authorization"
)

const defaultEnv = "dev"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		logger.WithError(err).Fatal("failed to initialize config")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer pg.Close()

	logger.WithFields(logrus.Fields{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	}).Info("connected to database")

	// Initialize repositories
	permissionRepo := postgres.NewPostgresPermissionRepository(pg.DB)
	roleRepo := postgres.NewPostgresRoleRepository(pg.DB)
	overrideRepo := postgres.NewPostgresOverrideRepository(pg.DB)
	userRepo := postgres.NewPostgresUserRepository(pg.DB)

	// Load the fixed permission catalog once at startup
	catalog, err := services.NewCatalogService(context.Background(), permissionRepo)
	if err != nil {
		logger.WithError(err).Fatal("failed to load permission catalog")
	}
	logger.WithField("permissions", len(catalog.List())).Info("permission catalog loaded")

	// Initialize services
	roleService := services.NewRoleService(roleRepo, catalog, logger)
	resolver := authorization.NewResolver(roleRepo, overrideRepo)
	overrideService := services.NewOverrideService(overrideRepo, catalog, resolver, logger)

	// Metrics
	exporter := metrics.NewPrometheusExporter()

	// HTTP surface
	router := handlers.NewRouter(
		handlers.NewPermissionHandler(catalog),
		handlers.NewRoleHandler(roleService, exporter),
		handlers.NewOverrideHandler(overrideService, resolver, userRepo, exporter),
		pg,
		exporter,
	)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	// Start servers
	serverErrors := make(chan error, 2)
	go func() {
		logger.WithField("addr", apiServer.Addr).Info("authorization API listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("api server error: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", metricsServer.Addr).Info("metrics endpoint listening")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		logger.WithError(err).Fatal("server error")
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("forced api server stop")
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("forced metrics server stop")
		}

		if err := pg.Close(); err != nil {
			logger.WithError(err).Warn("error closing database connection")
		}

		logger.Info("shutdown complete")
	}
}
