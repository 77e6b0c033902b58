package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/equibook/equibook/internal/config"
	"github.com/equibook/equibook/internal/domain"
	"github.com/equibook/equibook/internal/engine"
	"github.com/equibook/equibook/internal/handler"
	"github.com/equibook/equibook/internal/ledger"
	"github.com/equibook/equibook/internal/logging"
	"github.com/equibook/equibook/internal/service"
	"github.com/equibook/equibook/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up the process-wide logger.
	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(logger)

	// Key derivation for record storage. The default keyer is injective
	// over validated ids; swap here to integrate external addressing.
	keys := domain.PathKeyer{}

	// Stores.
	exchangeStore := store.NewExchangeStore()
	stockStore := store.NewStockStore(keys)
	holderStore := store.NewHolderStore(keys)
	orderStore := store.NewOrderStore(keys)
	tradeStore := store.NewTradeStore()
	webhookStore := store.NewWebhookStore()

	// Ledger and engine.
	led := ledger.NewLedger(exchangeStore, stockStore, holderStore, keys)
	depth := engine.NewDepthIndex()
	eng := engine.NewEngine(led, orderStore, tradeStore, depth, cfg.SellBookCapacity, cfg.BuyBookCapacity)

	// Services.
	webhookSvc := service.NewWebhookService(webhookStore, cfg.WebhookTimeout)
	exchangeSvc := service.NewExchangeService(led)
	stockSvc := service.NewStockService(led, eng)
	holderSvc := service.NewHolderService(led)
	orderSvc := service.NewOrderService(eng, tradeStore, webhookSvc)

	// Router.
	router := handler.NewRouter(exchangeSvc, stockSvc, holderSvc, orderSvc, webhookSvc, logger)

	// Start the gauge sampler with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sampler := engine.NewSampler(cfg.SampleInterval, led, depth)
	sampler.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops sampler).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
