package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/upload-service/internal/cache"
	"github.com/princekumarofficial/upload-service/internal/config"
	"github.com/princekumarofficial/upload-service/internal/services/reconcile"
	"github.com/princekumarofficial/upload-service/internal/storage"
	"github.com/princekumarofficial/upload-service/internal/storage/postgres"
)

type ReconcileWorker struct {
	reconciler *reconcile.Reconciler
	interval   time.Duration
	logger     *slog.Logger
}

func NewReconcileWorker(reconciler *reconcile.Reconciler, interval time.Duration) *ReconcileWorker {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &ReconcileWorker{
		reconciler: reconciler,
		interval:   interval,
		logger:     logger,
	}
}

func (rw *ReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.logger.Info("Ledger reconciler started",
		"interval", rw.interval.String())

	// Run once immediately on startup
	rw.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			rw.logger.Info("Ledger reconciler shutting down")
			return
		case <-ticker.C:
			rw.reconcile(ctx)
		}
	}
}

func (rw *ReconcileWorker) reconcile(ctx context.Context) {
	startTime := time.Now()

	count, err := rw.reconciler.RunOnce(ctx)
	if err != nil {
		rw.logger.Error("Failed to reconcile ledger",
			"error", err.Error(),
			"marked_missing", count,
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	rw.logger.Info("Completed ledger reconciliation",
		"marked_missing", count,
		"duration_ms", time.Since(startTime).Milliseconds())
}

// Ledger paths are relative to the upload service's working directory, so
// the reconciler has to run from the same directory.
func main() {
	// Load config
	cfg := config.MustLoad()

	pg, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer pg.Close()

	var ledger storage.Ledger = pg
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		// Marking rows missing has to drop cached listings served by the API
		ledger = cache.NewCachedLedger(pg, redisClient)
	}

	worker := NewReconcileWorker(reconcile.New(ledger, cfg.Reconciler.BatchSize), cfg.Reconciler.Interval)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	worker.Start(ctx)

	slog.Info("Ledger reconciler stopped")
}
