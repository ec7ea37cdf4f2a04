package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/auth"
	"github.com/festy23/converge/internal/config"
	"github.com/festy23/converge/internal/database/database"
	"github.com/festy23/converge/internal/database/migrate"
	"github.com/festy23/converge/internal/health"
	"github.com/festy23/converge/internal/metrics"
	"github.com/festy23/converge/internal/middleware"
	profileCache "github.com/festy23/converge/internal/profile/cache"
	profileRepository "github.com/festy23/converge/internal/profile/repository"
	profileRouter "github.com/festy23/converge/internal/profile/router"
	projectRepository "github.com/festy23/converge/internal/project/repository"
	projectRouter "github.com/festy23/converge/internal/project/router"
	teammateRepository "github.com/festy23/converge/internal/teammate/repository"
	teammateRouter "github.com/festy23/converge/internal/teammate/router"
	teammateService "github.com/festy23/converge/internal/teammate/service"
	"github.com/festy23/converge/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Pending migrations are applied first unless MIGRATE_ON_START=false.
When REDIS_ADDR is set, profile lookups go through a redis cache.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.OptionsFromEnv(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if cfg.MigrateOnStart {
		if err := migrate.Up(db, migrate.GetMigrationsPath()); err != nil {
			return err
		}
		log.Infow("migrations applied", "path", migrate.GetMigrationsPath())
	}

	var profiles profileRepository.Repository = profileRepository.New(db, log)
	if cfg.Cache.Enabled() {
		client, err := profileCache.Connect(ctx, cfg.Cache, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		profiles = profileCache.New(profiles, profileCache.NewRedisStore(client), cfg.Cache.TTL, log)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := newRouter(cfg, db, profiles, reg, log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newRouter wires middleware, health, metrics and the authenticated API.
func newRouter(
	cfg config.Config,
	db *gorm.DB,
	profiles profileRepository.Repository,
	reg *prometheus.Registry,
	log *zap.SugaredLogger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	m := metrics.New(reg)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(m),
	)

	r.GET("/health", health.New(db, log).Check)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	coordinator := teammateService.New(
		teammateRepository.New(db, log),
		projectRepository.New(db, log),
		profiles,
		db,
		m,
		log,
	)

	api := r.Group("/api", middleware.Auth(auth.NewTokenManager(cfg.Auth)))
	profileRouter.RegisterRoutes(api, profiles, log)
	projectRouter.RegisterRoutes(api, db, coordinator, log)
	teammateRouter.RegisterRoutes(api, coordinator, log)

	return r
}
