package main

import (
	"context"
	"time"

	"docgen-service-go/internal/api"
	"docgen-service-go/internal/app"
	"docgen-service-go/internal/pkg/config"
	"docgen-service-go/internal/pkg/logger"
	"docgen-service-go/internal/pkg/tracing"

	"go.uber.org/zap"
)

// version задается при сборке через -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	if err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Инициализируем трейсинг
	shutdown, err := tracing.InitTracer(tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    "docgen-service",
		ServiceVersion: version,
		Environment:    cfg.Tracing.Environment,
		CollectorURL:   cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Создаем сервисы
	a, err := app.New(ctx, cfg, logger.Log)
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Failed to close history store", zap.Error(err))
		}
	}()
	logger.Info("Services created",
		zap.Strings("companies", cfg.Companies),
		zap.String("letterheads", cfg.Paths.Letterheads),
		zap.String("output", cfg.Paths.Output))

	// Удаляем забытые сессии редактирования
	go a.Overlay.Run(ctx)

	// Создаем и настраиваем сервер
	handlers := api.NewHandlers(a.Documents, a.Overlay, a.History, cfg.Overlay.Root)
	server := api.NewServer(handlers, api.ServerOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
		Tracing:        cfg.Tracing.Enabled,
	})
	server.SetupRoutes()

	if err := server.Start(cfg.Server.Address); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
