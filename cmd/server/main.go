package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockflow/internal/config"
	"github.com/mamadbah2/stockflow/internal/repository/mongodb"
	"github.com/mamadbah2/stockflow/internal/repository/sheets"
	"github.com/mamadbah2/stockflow/internal/scheduler"
	"github.com/mamadbah2/stockflow/internal/server/handlers"
	"github.com/mamadbah2/stockflow/internal/server/router"
	"github.com/mamadbah2/stockflow/internal/service/staging"
	"github.com/mamadbah2/stockflow/internal/service/transfers"
	"github.com/mamadbah2/stockflow/pkg/clients/inventory"
	"github.com/mamadbah2/stockflow/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var recorders []transfers.Recorder

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		recorders = append(recorders, mongoRepo)
		baseLogger.Info("submission audit log enabled")
	} else {
		baseLogger.Warn("MONGODB_URI missing, submission audit log disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		recorders = append(recorders, sheets.NewLedgerRecorder(sheetsRepo, logger.Named(baseLogger, "repo.ledger")))
		baseLogger.Info("transfer ledger export enabled")
	}

	inventoryClient := inventory.NewClient(cfg.Inventory)
	sessions := staging.NewSessionManager()
	transfersSvc := transfers.NewService(inventoryClient, sessions, cfg.Inventory.DirectoryTTL, baseLogger.Named("svc.transfers"), recorders...)

	stagingHandler := handlers.NewStagingHandler(transfersSvc, baseLogger.Named("handlers.staging"))
	engine := router.New(stagingHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Session, transfersSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.Inventory.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
