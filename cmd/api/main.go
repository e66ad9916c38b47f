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

	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/config"
	"github.com/digitaltwinshub/projects-hub/internal/bootstrap"
	"github.com/digitaltwinshub/projects-hub/internal/logx"
)

const (
	serviceName     = "projects-hub"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logx.Init(cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logx.Sync()
	logger := logx.GetScope("main")

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := bootstrap.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	publisher := bootstrap.OpenPublisher(cfg.MQ)
	defer publisher.Close()

	services := bootstrap.BuildServices(cfg, kv, publisher)
	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Services:       services,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("remote", cfg.Remote.Configured()),
			zap.Bool("openai", cfg.Chat.OpenAIAPIKey != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
