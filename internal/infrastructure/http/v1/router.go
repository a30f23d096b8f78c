// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitestock/internal/domain/catalogs/material"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/domain/notification"
	"sitestock/internal/domain/request"
	"sitestock/internal/domain/usage"
	"sitestock/internal/infrastructure/http/v1/handlers"
	"sitestock/internal/infrastructure/http/v1/middleware"
	"sitestock/internal/infrastructure/storage/postgres"
	"sitestock/pkg/logger"
)

// RoleManager may approve or reject material requests.
const RoleManager = "manager"

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Domain services
	Ledger        *ledger.Service
	Usage         *usage.Service
	Requests      *request.Service
	Notifications *notification.Dispatcher
	Materials     *material.Service

	// MetricsEnabled exposes /metrics and records request latency
	MetricsEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API v1, JWT identity required throughout
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	{
		baseHandler := handlers.NewBaseHandler()

		stockHandler := handlers.NewStockHandler(baseHandler, cfg.Ledger)
		stockHandler.RegisterRoutes(api.Group("/stock"))

		usageHandler := handlers.NewUsageHandler(baseHandler, cfg.Usage)
		usageHandler.RegisterRoutes(api.Group("/usage"))

		requestHandler := handlers.NewRequestHandler(baseHandler, cfg.Requests)
		requestHandler.RegisterRoutes(api.Group("/requests"), middleware.RequireRole(RoleManager))

		billHandler := handlers.NewBillHandler(baseHandler)
		billHandler.RegisterRoutes(api.Group("/bills"))

		notificationHandler := handlers.NewNotificationHandler(baseHandler, cfg.Notifications)
		notificationHandler.RegisterRoutes(api.Group("/notifications"))

		materialHandler := handlers.NewMaterialHandler(baseHandler, cfg.Materials)
		materialHandler.RegisterRoutes(api.Group("/materials"))
	}

	return router
}
