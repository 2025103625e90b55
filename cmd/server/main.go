package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/cafe-likes/internal/metrics"
	"github.com/anonto42/cafe-likes/internal/repositories"
	"github.com/anonto42/cafe-likes/internal/router"
	"github.com/anonto42/cafe-likes/pkg/config"
	"github.com/anonto42/cafe-likes/pkg/logging"
	"go.uber.org/zap"
)

// The contract stub: serves the like endpoints from memory so the client can
// be exercised without the real cafe site.
func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.Verbose)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	e := router.New(repositories.NewMemoryLikeRepository(), metrics.New(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("like stub listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
