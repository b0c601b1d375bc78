// Package server exposes the analytics engine and storage over HTTP.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Darshu236/smartexpense-server/internal/engine"
	"github.com/Darshu236/smartexpense-server/internal/service"
)

// Config holds the HTTP server settings.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// New assembles the Echo router with all routes and middleware.
func New(eng *engine.Engine, store service.Storage, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	h := NewHandler(eng, store)

	e.GET("/health", Health)

	api := e.Group("/api")
	api.POST("/transactions", h.SaveTransactions)
	api.GET("/transactions", h.ListTransactions)
	api.POST("/budgets", h.SetBudgets)
	api.GET("/recommendations", h.ListRecommendations)
	api.POST("/recommendations/:id/dismiss", h.DismissRecommendation)
	api.GET("/analytics/summary", h.SpendingSummary)

	ml := api.Group("/ml")
	ml.POST("/train", h.Train)
	ml.POST("/predict-category", h.PredictCategory)
	ml.POST("/detect-anomalies", h.DetectAnomalies)
	ml.GET("/habits", h.Habits)
	ml.GET("/forecast", h.Forecast)
	ml.POST("/recommendations", h.RefreshRecommendations)

	return e
}

// NewHTTPServer creates a net/http server with the configured timeouts.
func NewHTTPServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}
