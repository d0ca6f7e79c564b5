package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/wire"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

const sessionCleanupInterval = time.Hour

// APIServer serves the router until ctx is cancelled, then shuts down gracefully.
// The event bus and the expired session sweeper run alongside the HTTP server.
func APIServer(ctx context.Context, app *wire.App, repo *repository.Repository, config *utils.Config, log *zap.Logger) error {
	addr := fmt.Sprintf(":%s", config.App.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	if app.Bus != nil {
		go func() {
			if err := app.Bus.Run(ctx); err != nil {
				log.Error("Event router stopped", zap.Error(err))
			}
		}()
	}

	go cleanSessions(ctx, repo, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server running", zap.String("addr", "http://localhost"+addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server", zap.Duration("timeout", config.App.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if app.Bus != nil {
		if err := app.Bus.Close(); err != nil {
			log.Warn("Failed to close event bus", zap.Error(err))
		}
	}

	log.Info("Server stopped")
	return nil
}

func cleanSessions(ctx context.Context, repo *repository.Repository, log *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.Session.CleanExpiredSessions(ctx)
			if err != nil {
				log.Warn("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("Expired sessions removed", zap.Int64("count", removed))
			}
		}
	}
}
