package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"aigateway/internal/gateway"
	"aigateway/internal/history"
	"aigateway/internal/http/handlers"
	httpapi "aigateway/internal/http/httpapi"
	"aigateway/internal/infra"
	"aigateway/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.Open(ctx, cfg.HistoryDriver, cfg.HistoryDSN, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.HistoryDriver).Msg("open history store")
	}
	defer store.Close()

	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("prepare upload directory")
	}

	metrics := infra.NewMetrics("aigateway")
	svc := gateway.FromConfig(cfg, store, metrics, &logger, nil)
	for _, s := range svc.Services() {
		logger.Info().Str("provider", s.ID).Str("category", s.Category).Bool("available", s.Available).Msg("provider registered")
	}

	app := handlers.NewApp(svc, uploads, metrics, &logger, cfg.MaxVideoBytes)
	router := httpapi.NewRouter(app, httpapi.Options{AllowedOrigins: cfg.AllowedOrigins})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Str("history", cfg.HistoryDriver).Msg("gateway listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("gateway stopped with error")
		return
	}
	logger.Info().Msg("gateway stopped")
}
