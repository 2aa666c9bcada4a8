package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ftso-community/ccxt-value-provider-go/internal/config"
	"github.com/ftso-community/ccxt-value-provider-go/internal/datafeed"
	"github.com/ftso-community/ccxt-value-provider-go/internal/engine"
	"github.com/ftso-community/ccxt-value-provider-go/internal/httpapi"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
)

const (
	idleTimeout      = 30 * time.Second
	readWriteTimeout = 60 * time.Second
	shutdownTimeout  = 10 * time.Second
)

func main() {
	// 1. Load configuration and initialize logger.
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)

	// 2. Build the configured DataFeed implementation.
	feed, stop := buildFeed(cfg)
	if stop != nil {
		defer stop()
	}

	// 3. Create the HTTP server.
	mux := httpapi.NewMux(feed)
	bindAddr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{
		Addr:              bindAddr,
		Handler:           mux,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readWriteTimeout,
		WriteTimeout:      readWriteTimeout,
	}

	// 4. Start serving.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "address", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	// 5. Wait for a shutdown signal or a fatal server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("received shutdown signal")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}

	// 6. Graceful shutdown.
	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Debug("server exited cleanly")
}

// buildFeed selects a DataFeed implementation per VALUE_PROVIDER_IMPL. The
// live engine returns a stop function that cancels its ingestors; the stub
// feeds need none.
func buildFeed(cfg *config.Config) (datafeed.Feed, func()) {
	switch cfg.ValueProviderImpl {
	case "fixed":
		return datafeed.NewFixedFeed(), nil
	case "random":
		return datafeed.NewRandomFeed(), nil
	default:
		eng := engine.New(cfg)
		if err := eng.Start(context.Background()); err != nil {
			log.Fatalf("failed to start engine: %v", err)
		}
		return eng, eng.Stop
	}
}
