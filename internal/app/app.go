// Package app opens the snapshot database, the stores and the services
// shared by the API server and the bizctl command.
package app

import (
	"context"
	"fmt"

	"go-bizkeeper/internal/config"
	"go-bizkeeper/internal/metrics"
	"go-bizkeeper/internal/receipt"
	"go-bizkeeper/internal/repository"
	"go-bizkeeper/internal/service"
	"go-bizkeeper/internal/store"
	"go-bizkeeper/internal/ws"
	"go-bizkeeper/pkg/blob"
	"go-bizkeeper/pkg/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Writer  *repository.AsyncWriter
	Hub     *ws.Hub
	Stores  *store.Stores
	Blobs   blob.Store
	Intake  service.IntakeService
	Reports service.ReportService
}

var connect = database.Connect

// Open connects storage and restores every store. The hub is created but
// not started; callers that serve websockets run it themselves. On error
// everything opened so far is closed again.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *App, err error) {
	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := connect(database.Options{Driver: cfg.DBDriver, DSN: dsn})
	if err != nil {
		return nil, err
	}
	var writer *repository.AsyncWriter
	defer func() {
		if err == nil {
			return
		}
		if writer != nil {
			writer.Close()
		}
		closeDB(db)
	}()

	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DBDriver))

	repo := repository.NewSnapshotRepo(db)
	writer = repository.NewAsyncWriter(repo, log.Named("persist"),
		repository.WithFailureHook(metrics.ObservePersistFailure))
	hub := ws.NewHub(log.Named("ws"))

	stores, err := store.Open(ctx, store.Deps{
		Loader:    repo,
		Persister: writer,
		Notifier:  hub,
		Logger:    log.Named("store"),
	})
	if err != nil {
		return nil, err
	}
	if cfg.SeedSampleData {
		if err := stores.SeedSamples(log); err != nil {
			return nil, err
		}
	}

	blobs, err := blob.New(ctx, blob.Options{
		Driver:    cfg.StorageDriver,
		LocalRoot: cfg.StorageLocalRoot,
		BaseURL:   cfg.StorageURL,
		S3: blob.S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blob storage: %w", err)
	}

	publisher := receipt.NewPublisher(receipt.NewBlobPrinter(blobs, ""), receipt.NewLogSharer(log.Named("receipt")))
	intake := service.NewIntakeService(stores.Products, stores.Customers, stores.Orders,
		receipt.NewFormatter(cfg.BusinessName, cfg.CurrencyPrefix), publisher, log.Named("intake"))
	reports := service.NewReportService(stores.Orders, stores.Products, stores.Customers, cfg.LowStockThreshold)

	return &App{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Writer:  writer,
		Hub:     hub,
		Stores:  stores,
		Blobs:   blobs,
		Intake:  intake,
		Reports: reports,
	}, nil
}

// Close drains pending snapshot writes and closes the database.
func (a *App) Close() {
	a.Writer.Close()
	closeDB(a.DB)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
