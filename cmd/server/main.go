package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/config"
	"github.com/maxviazov/coursehub-service/internal/handler"
	"github.com/maxviazov/coursehub-service/internal/logger"
	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/repository/memory"
	"github.com/maxviazov/coursehub-service/internal/repository/postgres"
	"github.com/maxviazov/coursehub-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage initialization failed")
	}
	defer closeStore()

	m := metrics.New(prometheus.NewRegistry())
	svcs := service.New(store, m, appLogger)

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(appLogger, store.Pinger, svcs, handler.Options{
		Pagination:     cfg.Pagination.Defaults(),
		MaxLimit:       cfg.Pagination.MaxLimit,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("🚀 Service started")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		appLogger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	appLogger.Info().Msg("✅ Service stopped")
}

// openStore wires the configured repository backend. The returned func
// releases its resources.
func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.Store, func(), error) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		return memory.NewStore(memory.Open()), func() {}, nil
	}

	repo, err := repository.New(ctx, cfg.Postgres, logger)
	if err != nil {
		return repository.Store{}, nil, err
	}
	if cfg.Postgres.AutoMigrate {
		if err := repo.Migrate(ctx, *logger); err != nil {
			repo.Close()
			return repository.Store{}, nil, err
		}
	}
	return postgres.NewStore(repo.Pool()), repo.Close, nil
}
