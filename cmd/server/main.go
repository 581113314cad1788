package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/catalog"
	"github.com/draftwise/draftwise/internal/config"
	"github.com/draftwise/draftwise/internal/httpapi"
	"github.com/draftwise/draftwise/internal/hub"
	"github.com/draftwise/draftwise/internal/prediction"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := prediction.NewClient(cfg.PredictorBaseURL, cfg.PredictorAPIKey, cfg.PredictorTimeout, logger)
	champions := catalog.New(client, cfg.FeatureMapTTL, logger)

	// Warm the catalog in the background; the picker serves 503 until it lands.
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, cfg.PredictorTimeout)
		defer cancel()
		if _, err := champions.Champions(warmCtx); err != nil {
			logger.Warn("champion catalog warm-up failed", zap.Error(err))
		}
	}()

	h := hub.NewHub(ctx, logger)
	api := httpapi.NewAPI(h, champions, client, version, logger)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	h.Inbox() <- hub.ShutdownHub{}
}

func setupLogger(env string) *zap.Logger {
	if env == "prod" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
