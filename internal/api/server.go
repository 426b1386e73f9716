package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docgen-service-go/internal/api/middleware"
	"docgen-service-go/internal/pkg/logger"
	"docgen-service-go/internal/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	Router   *gin.Engine
	Handlers *Handlers
	server   *http.Server
}

// ServerOptions параметры HTTP сервера
type ServerOptions struct {
	RequestTimeout time.Duration
	Tracing        bool
}

func NewServer(handlers *Handlers, opts ServerOptions) *Server {
	router := gin.New()

	// Настройка лимитов
	router.MaxMultipartMemory = 8 << 20 // 8 MiB

	// Добавляем middleware для восстановления после паники
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if opts.Tracing {
		router.Use(tracing.GinTracingMiddleware())
	}
	router.Use(middleware.RequestLogger(logger.Named("http")))

	// Добавляем middleware для метрик
	router.Use(middleware.PrometheusMiddleware())

	// Добавляем middleware для таймаутов
	router.Use(middleware.Timeout(opts.RequestTimeout))

	return &Server{
		Router:   router,
		Handlers: handlers,
	}
}

func (s *Server) SetupRoutes() {
	// Health check для k8s
	s.Router.GET("/health", s.Handlers.Health)

	// Метрики Prometheus
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API endpoints
	v1 := s.Router.Group("/api/v1")
	{
		v1.GET("/templates", s.Handlers.Documents.Templates)
		v1.GET("/companies", s.Handlers.Documents.Companies)
		v1.POST("/documents", s.Handlers.Documents.Generate)
		v1.GET("/history", s.Handlers.Statistics.History)
		v1.GET("/history/summary", s.Handlers.Statistics.Summary)
	}

	sessions := v1.Group("/overlay/sessions")
	{
		sessions.POST("", s.Handlers.Overlay.Open)
		sessions.GET("/:id", s.Handlers.Overlay.Get)
		sessions.DELETE("/:id", s.Handlers.Overlay.Close)
		sessions.POST("/:id/items", s.Handlers.Overlay.AddItem)
		sessions.POST("/:id/items/:item/move", s.Handlers.Overlay.Move)
		sessions.POST("/:id/items/:item/resize", s.Handlers.Overlay.Resize)
		sessions.POST("/:id/items/:item/rotate", s.Handlers.Overlay.Rotate)
		sessions.DELETE("/:id/items/:item", s.Handlers.Overlay.RemoveItem)
		sessions.POST("/:id/zoom", s.Handlers.Overlay.Zoom)
		sessions.POST("/:id/save", s.Handlers.Overlay.Save)
	}
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.Router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Канал для получения ошибок
	errChan := make(chan error, 1)

	// Запускаем сервер в горутине
	go func() {
		logger.Info("Starting server", zap.String("addr", addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Канал для сигналов операционной системы
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Ожидаем сигнал или ошибку
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
		return s.Stop()
	}
}

func (s *Server) Stop() error {
	if s.server != nil {
		// Создаем контекст с таймаутом для graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Shutting down server...")

		// Останавливаем прием новых запросов
		if err := s.server.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
