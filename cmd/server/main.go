package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sefedemircan/triz-pos/internal/config"
	"github.com/sefedemircan/triz-pos/internal/infra"
	"github.com/sefedemircan/triz-pos/internal/repository"
	"github.com/sefedemircan/triz-pos/internal/router"
	"github.com/sefedemircan/triz-pos/internal/service"
	"github.com/sefedemircan/triz-pos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker pool for async tasks (receipts, alert emails). Handlers are
	// wired here, at the composition root, so the pool has full access to
	// infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	orderRepo := repository.NewOrderRepository(db)

	handlers := worker.Handlers{
		Receipt: worker.NewReceiptWorker(orderRepo, mailer, dispatcher, cfg.BusinessName, cfg.PDFStoragePath),
		Alert:   worker.NewAlertWorker(mailer, cfg.AlertEmail, cfg.BusinessName),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Periodic expiry sweep: expired / expiring_soon alerts fire on a clock,
	// not on request traffic.
	stockItems := repository.NewStockItemRepository(db)
	stockMovements := repository.NewStockMovementRepository(db)
	stockAlerts := repository.NewStockAlertRepository(db)
	stockSvc := service.NewStockService(stockItems, stockMovements, repository.NewRecipeRepository(db), stockAlerts, dispatcher)
	inventorySvc := service.NewInventoryService(stockItems, repository.NewStockCategoryRepository(db), stockMovements, stockAlerts, stockSvc)
	worker.StartExpiryCron(ctx, inventorySvc,
		time.Duration(cfg.ExpiryScanIntervalMin)*time.Minute,
		time.Duration(cfg.ExpiryAlertWindowDays)*24*time.Hour)

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("triz-pos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
