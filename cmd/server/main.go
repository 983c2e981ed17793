package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/rcondori/cafe-inventory/internal/config"
	"github.com/rcondori/cafe-inventory/internal/domain/batches"
	"github.com/rcondori/cafe-inventory/internal/domain/catalog"
	"github.com/rcondori/cafe-inventory/internal/domain/materials"
	"github.com/rcondori/cafe-inventory/internal/domain/products"
	"github.com/rcondori/cafe-inventory/internal/domain/reports"
	"github.com/rcondori/cafe-inventory/internal/domain/stock"
	"github.com/rcondori/cafe-inventory/internal/infra/db"
	httpx "github.com/rcondori/cafe-inventory/internal/infra/http"
	"github.com/rcondori/cafe-inventory/internal/infra/logger"
	"github.com/rcondori/cafe-inventory/internal/infra/telegram"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	var notifier stock.Notifier
	if cfg.Telegram.Token != "" {
		tn, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.AlertChatID, log)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		notifier = tn
		log.Info("telegram notifier ready", "chat", cfg.Telegram.AlertChatID)
	} else {
		log.Warn("telegram token missing, low stock alerts disabled")
	}

	catalogRepo := catalog.NewRepo(pool)
	materialsRepo := materials.NewRepo(pool)
	stockRepo := stock.NewRepo(pool)
	batchRepo := batches.NewRepo(pool)
	productsRepo := products.NewRepo(pool)
	reportsRepo := reports.NewRepo(pool)

	stockSvc := stock.NewService(stockRepo, notifier, log)
	batchSvc := batches.NewService(batchRepo, materialsRepo, stockSvc)
	saleSvc := products.NewService(productsRepo, stockSvc)

	handlers := &httpx.Handlers{
		Catalog:   catalogRepo,
		Materials: materialsRepo,
		Stock:     stockSvc,
		StockRepo: stockRepo,
		Batches:   batchSvc,
		BatchRepo: batchRepo,
		Products:  productsRepo,
		Sales:     saleSvc,
		Reports:   reportsRepo,
		Notifier:  notifier,
		Log:       log,
	}

	srv := httpx.New(cfg.HTTP.Addr, cfg.App.Env, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
