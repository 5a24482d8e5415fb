package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopfloor/internal/config"
	"shopfloor/internal/core/container"
	"shopfloor/internal/core/logger"
	"shopfloor/internal/core/routes"
	"shopfloor/internal/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout     = 10 * time.Second
	limiterCleanupEvery = time.Minute
)

// Serve runs the API until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.Server.Mode)
	log := logger.NewLogger(cfg.Server.Mode)
	defer func() { _ = log.Sync() }()

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Connected to the database")

	c, err := container.NewAppContainer(ctx, db, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("Failed to close container", zap.Error(err))
		}
	}()

	router, err := routes.NewRouter(c, cfg.Server, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", zap.String("addr", server.Addr), zap.String("mode", cfg.Server.Mode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		c.LoginLimiter.Run(gctx, limiterCleanupEvery)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
