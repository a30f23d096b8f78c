// Package main is the entry point for the sitestock API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"sitestock/internal/config"
	"sitestock/internal/domain/catalogs/material"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/domain/notification"
	"sitestock/internal/domain/request"
	"sitestock/internal/domain/usage"
	"sitestock/internal/infrastructure/auth"
	v1 "sitestock/internal/infrastructure/http/v1"
	"sitestock/internal/infrastructure/numerator"
	"sitestock/internal/infrastructure/storage/postgres"
	"sitestock/internal/infrastructure/storage/postgres/catalog_repo"
	"sitestock/internal/infrastructure/storage/postgres/ledger_repo"
	"sitestock/internal/infrastructure/storage/postgres/notification_repo"
	"sitestock/internal/infrastructure/storage/postgres/request_repo"
	"sitestock/internal/infrastructure/storage/postgres/usage_repo"
	"sitestock/pkg/logger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development || cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting sitestock server")

	// --- Migrations ---
	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Fatalw("migrations failed", "error", err)
	}
	log.Info("migrations applied")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditSvc, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	ledgerRepo := ledger_repo.NewProjectMaterialRepo(txManager, auditSvc)
	usageRepo := usage_repo.NewUsageLogRepo(txManager, auditSvc)
	requestRepo := request_repo.NewMaterialRequestRepo(txManager, auditSvc)
	notificationRepo := notification_repo.NewNotificationRepo(txManager)
	materialRepo := catalog_repo.NewMaterialRepo(txManager, auditSvc)

	// --- Services ---
	policy := ledger.PolicyForMode(ledger.EnforcementMode(cfg.Ledger.Enforcement))
	ledgerSvc := ledger.NewService(ledgerRepo, txManager, policy)

	dispatcher := notification.NewDispatcher(notificationRepo)

	lowStockRule, err := usage.NewLowStockRule(cfg.Ledger.LowStockRule, cfg.Ledger.LowStockThreshold)
	if err != nil {
		log.Fatalw("invalid low stock rule", "error", err)
	}
	usageSvc := usage.NewService(usageRepo, ledgerSvc, txManager, dispatcher, lowStockRule)

	numeratorSvc := numerator.New(pool)
	requestSvc := request.NewService(requestRepo, ledgerSvc, txManager, dispatcher, numeratorSvc)
	materialSvc := material.NewService(materialRepo, numeratorSvc)

	// --- JWT ---
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		log.Warn("auth.jwt_secret is empty, using insecure development secret")
		jwtSecret = "dev-secret-change-me"
	}
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		Ledger:         ledgerSvc,
		Usage:          usageSvc,
		Requests:       requestSvc,
		Notifications:  dispatcher,
		Materials:      materialSvc,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting",
			"addr", cfg.HTTP.Addr,
			"enforcement", policy.Mode(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
