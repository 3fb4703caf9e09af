package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/service"
)

// Syncer is the part of the stock sync service the worker drives
type Syncer interface {
	Sync(ctx context.Context, company string) (*service.SyncResult, error)
}

// SyncWorkerConfig holds configuration for the sync worker
type SyncWorkerConfig struct {
	Company     string
	Interval    time.Duration
	SyncTimeout time.Duration
	RunOnStart  bool
}

// SyncStats is a snapshot of the worker's counters
type SyncStats struct {
	Runs        int
	Failures    int
	LastSuccess time.Time
	LastError   error
}

// SyncWorker pulls stock from the ledger system on a fixed interval
type SyncWorker struct {
	config SyncWorkerConfig
	syncer Syncer
	logger *zap.Logger

	mu        sync.RWMutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
	stats     SyncStats
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(config SyncWorkerConfig, syncer Syncer, logger *zap.Logger) *SyncWorker {
	if config.SyncTimeout <= 0 {
		config.SyncTimeout = 2 * time.Minute
	}
	return &SyncWorker{
		config: config,
		syncer: syncer,
		logger: logger,
	}
}

// Name returns the worker name for identification
func (w *SyncWorker) Name() string {
	return "SyncWorker"
}

// Start begins the sync loop
func (w *SyncWorker) Start(ctx context.Context) error {
	if w.config.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", w.config.Interval)
	}

	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("sync worker already running")
	}
	var loopCtx context.Context
	loopCtx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("SyncWorker started",
		zap.String("company", w.config.Company),
		zap.Duration("interval", w.config.Interval))

	go w.loop(loopCtx, w.done)
	return nil
}

// Stop cancels the loop and waits for an in-flight sync to return
func (w *SyncWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	stats := w.Stats()
	w.logger.Info("SyncWorker stopped",
		zap.Int("runs", stats.Runs),
		zap.Int("failures", stats.Failures))
	return nil
}

// Stats returns the worker's counters
func (w *SyncWorker) Stats() SyncStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *SyncWorker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	if w.config.RunOnStart {
		w.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, w.config.SyncTimeout)
	defer cancel()

	result, err := w.syncer.Sync(syncCtx, w.config.Company)

	w.mu.Lock()
	w.stats.Runs++
	if err != nil {
		w.stats.Failures++
		w.stats.LastError = err
	} else {
		w.stats.LastSuccess = time.Now()
		w.stats.LastError = nil
	}
	w.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("Scheduled stock sync failed",
			zap.String("company", w.config.Company),
			zap.Error(err))
		return
	}

	w.logger.Info("Scheduled stock sync completed",
		zap.String("run_id", result.Snapshot.Run.ID),
		zap.Int("items", len(result.Snapshot.Items)),
		zap.Int("warnings", len(result.Snapshot.Warnings)))
}
