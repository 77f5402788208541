package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"blog-front/cmd/internal/logger"
	"blog-front/config"
)

func runServe(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.InfoWithFields("server starting", logger.Fields{
			"addr":            a.server.Addr,
			"content_api":     cfg.ContentAPI.BaseURL,
			"analytics_topic": cfg.Analytics.Topic,
		})
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Log.Info("server exited")
	return nil
}
