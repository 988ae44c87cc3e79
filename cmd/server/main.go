package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tdalton7/earnex/internal/api"
	"github.com/tdalton7/earnex/internal/config"
	"github.com/tdalton7/earnex/internal/oracle"
	"github.com/tdalton7/earnex/internal/pipeline"
	"github.com/tdalton7/earnex/internal/ratelimit"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the oracle client and extraction engine.
	oc := oracle.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	coord := pipeline.NewCoordinator(cfg, oc, log)

	// Admission control with its background sweep.
	limiter := ratelimit.NewLimiter(cfg.RateWindow, cfg.RateMaxRequests)
	limiter.StartSweeping(ctx, cfg.RateSweepInterval)

	srv := api.NewServer(coord, oc, limiter, log, cfg)

	httpServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		// Batches run synchronously; writes wait on oracle latency.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		oc.Close()
	}()

	log.Info("starting earnex", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
