package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lordbaah/photodrop/internal/app"
	"github.com/lordbaah/photodrop/internal/config"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/server"
	"github.com/lordbaah/photodrop/internal/tracing"
)

func main() {
	zl, err := logger.Init()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		zl.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		zl.Fatal("init tracing", zap.Error(err))
	}
	metrics.InitMetrics()

	deps, err := app.Build(ctx, cfg)
	if err != nil {
		zl.Fatal("build services", zap.Error(err))
	}
	defer deps.Close()

	router := server.NewRouter(server.Dependencies{
		Config: cfg,
		Health: []server.HealthCheck{
			server.PostgresCheck(deps.DB),
			server.MinIOCheck(deps.ObjectStore, cfg.MinIO.Bucket),
		},
		Issuer:   deps.Issuer,
		Recorder: deps.Recorder,
		Gallery:  deps.Gallery,
		Contact:  deps.Contact,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zl.Info("photodrop API listening", zap.String("addr", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	zl.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown http server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zl.Error("shutdown tracing", zap.Error(err))
	}
}
