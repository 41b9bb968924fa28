// Package main is the entry point for feed-hub service.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feed-hub/config"
	"feed-hub/driver"
	"feed-hub/gateway"
	"feed-hub/rest"
	"feed-hub/usecase"
	"feed-hub/utils/logger"
)

func main() {
	logger.Init()

	// Load configuration
	cfg := config.NewConfig()

	// Initialize Redis driver
	redisDriver, err := driver.NewRedisDriverWithURL(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisDriver.Close()
	redisDriver.SetMaxTxAttempts(cfg.FeedMaxTxAttempts)

	// Initialize gateway and feed registry
	feedGateway := gateway.NewFeedGateway(redisDriver)
	registry := usecase.NewRegistry(feedGateway, cfg.FeedMaxLength)

	// Initialize handler
	handler := rest.NewFeedHandler(registry, slog.Default())

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.InfoContext(c.Request().Context(), "HTTP request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"error", v.Error)
			return nil
		},
	}))

	// API routes
	api := e.Group("/api/v1")
	api.POST("/feeds/:name/items", handler.HandlePublish)
	api.DELETE("/feeds/:name/items/:id", handler.HandleRetract)
	api.GET("/feeds/:name/ids", handler.HandleGetIDs)
	api.GET("/feeds/:name/items/:id", handler.HandleGetItem)
	api.GET("/feeds/:name/items", handler.HandleGetAll)

	// Health check endpoint for non-API clients
	e.GET("/health", func(c echo.Context) error {
		health := registry.HealthCheck(c.Request().Context())
		status := http.StatusOK
		if !health.Healthy {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, map[string]any{
			"healthy":        health.Healthy,
			"redis_status":   health.RedisStatus,
			"uptime_seconds": health.UptimeSeconds,
		})
	})

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	slog.Info("starting feed-hub server", "addr", addr)

	if err := e.Start(addr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
