package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/event"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/reconcile"
)

// ErrNoSnapshot is returned when a company has never been synced
var ErrNoSnapshot = errors.New("no stock snapshot for company")

// SyncResult is the outcome of one synchronization
type SyncResult struct {
	Snapshot *entity.StockSnapshot `json:"snapshot"`
	Duration time.Duration         `json:"duration_ns"`
}

// StockSyncService pulls stock from the ledger system and keeps the latest
// reconciled snapshot per company
type StockSyncService interface {
	Sync(ctx context.Context, company string) (*SyncResult, error)
	Latest(ctx context.Context, company string) (*entity.StockSnapshot, error)
	History(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error)
	DefaultCompany() string
}

type stockSyncServiceImpl struct {
	gateway        port.LedgerGateway
	runRepo        port.SyncRunRepository
	stockRepo      port.StockSnapshotRepository
	txManager      port.TransactionManager
	cache          port.SnapshotCache
	events         EventPublisher
	defaultCompany string
	logger         Logger
}

// NewStockSyncService creates a new StockSyncService
func NewStockSyncService(
	gateway port.LedgerGateway,
	runRepo port.SyncRunRepository,
	stockRepo port.StockSnapshotRepository,
	txManager port.TransactionManager,
	cache port.SnapshotCache,
	events EventPublisher,
	defaultCompany string,
	logger Logger,
) StockSyncService {
	return &stockSyncServiceImpl{
		gateway:        gateway,
		runRepo:        runRepo,
		stockRepo:      stockRepo,
		txManager:      txManager,
		cache:          cache,
		events:         events,
		defaultCompany: defaultCompany,
		logger:         logger,
	}
}

func (s *stockSyncServiceImpl) DefaultCompany() string {
	return s.defaultCompany
}

func (s *stockSyncServiceImpl) resolveCompany(company string) (string, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		company = s.defaultCompany
	}
	if company == "" {
		return "", ledger.ErrEmptyCompany
	}
	return company, nil
}

// Sync fetches the godown list and the price list concurrently, reconciles
// both, joins them by item name and stores the result as the company's
// latest snapshot. A failed fetch aborts the sync and leaves the previous
// snapshot in place.
func (s *stockSyncServiceImpl) Sync(ctx context.Context, company string) (*SyncResult, error) {
	company, err := s.resolveCompany(company)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	run := &entity.SyncRun{CompanyName: company}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to create sync run", "error", err, "company", company)
		return nil, fmt.Errorf("failed to create sync run: %w", err)
	}
	s.logger.Info("Stock sync started", "run_id", run.ID, "company", company)

	var godownTree, priceTree ledger.RawReportTree
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tree, err := s.gateway.FetchReport(gctx, ledger.ReportGodownList, company)
		if err != nil {
			return fmt.Errorf("godown list: %w", err)
		}
		godownTree = tree
		return nil
	})
	g.Go(func() error {
		tree, err := s.gateway.FetchReport(gctx, ledger.ReportPriceList, company)
		if err != nil {
			return fmt.Errorf("price list: %w", err)
		}
		priceTree = tree
		return nil
	})
	if err := g.Wait(); err != nil {
		s.fail(ctx, run, err)
		return nil, err
	}

	godowns := reconcile.Reconcile(godownTree, company)
	prices := reconcile.Reconcile(priceTree, company)

	warnings := make([]entity.SyncWarning, 0, len(godowns.Warnings)+len(prices.Warnings))
	warnings = appendWarnings(warnings, entity.WarningSourceGodown, godowns.Warnings)
	warnings = appendWarnings(warnings, entity.WarningSourcePriceList, prices.Warnings)
	warnings = appendWarnings(warnings, entity.WarningSourceMerge, reconcile.DuplicateWarnings(godowns.Items))
	warnings = appendWarnings(warnings, entity.WarningSourceMerge, reconcile.DuplicateWarnings(prices.Items))

	items := reconcile.Merge(godowns.Items, prices.Items)

	run.Status = entity.SyncStatusCompleted
	run.ItemCount = len(items)
	run.WarningCount = len(warnings)
	finished := time.Now()
	run.FinishedAt = &finished

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.stockRepo.SaveItems(txCtx, run.ID, items); err != nil {
			return err
		}
		if err := s.stockRepo.SaveWarnings(txCtx, run.ID, warnings); err != nil {
			return err
		}
		return s.runRepo.Finish(txCtx, run)
	})
	if err != nil {
		err = fmt.Errorf("failed to persist snapshot: %w", err)
		// the commit outcome is unknown; the next read goes to the database
		s.cache.Invalidate(company)
		run.ItemCount, run.WarningCount = 0, 0
		run.FinishedAt = nil
		s.fail(ctx, run, err)
		return nil, err
	}

	snapshot := &entity.StockSnapshot{Run: *run, Items: items, Warnings: warnings}
	s.cache.Set(company, snapshot)

	s.events.DispatchAsync(ctx, event.NewEventWithCorrelation(event.TypeStockSynced, company, map[string]interface{}{
		event.KeyRunID:        run.ID,
		event.KeyItemCount:    run.ItemCount,
		event.KeyWarningCount: run.WarningCount,
	}, run.ID))

	s.logger.Info("Stock sync completed",
		"run_id", run.ID,
		"company", company,
		"items", run.ItemCount,
		"warnings", run.WarningCount,
		"duration", time.Since(started))

	return &SyncResult{Snapshot: snapshot, Duration: time.Since(started)}, nil
}

// fail records the run as failed and announces it. The original error is
// what the caller sees; bookkeeping failures are only logged.
// The run is closed even when ctx is already canceled or past its deadline.
func (s *stockSyncServiceImpl) fail(ctx context.Context, run *entity.SyncRun, cause error) {
	s.logger.Error("Stock sync failed", "run_id", run.ID, "company", run.CompanyName, "error", cause)

	ctx = context.WithoutCancel(ctx)
	run.Status = entity.SyncStatusFailed
	run.ErrorMessage = cause.Error()
	if err := s.runRepo.Finish(ctx, run); err != nil {
		s.logger.Error("Failed to record sync failure", "run_id", run.ID, "error", err)
	}

	s.events.DispatchAsync(ctx, event.NewEventWithCorrelation(event.TypeStockSyncFailed, run.CompanyName, map[string]interface{}{
		event.KeyRunID: run.ID,
		event.KeyError: cause.Error(),
	}, run.ID))
}

func appendWarnings(dst []entity.SyncWarning, source string, warnings []reconcile.Warning) []entity.SyncWarning {
	for _, w := range warnings {
		dst = append(dst, entity.SyncWarning{
			Source:   source,
			Code:     string(w.Code),
			ItemName: w.ItemName,
			Message:  w.Message,
		})
	}
	return dst
}

// Latest returns the last completed snapshot, from memory when possible
func (s *stockSyncServiceImpl) Latest(ctx context.Context, company string) (*entity.StockSnapshot, error) {
	company, err := s.resolveCompany(company)
	if err != nil {
		return nil, err
	}

	if snapshot, ok := s.cache.Get(company); ok {
		return snapshot, nil
	}

	run, err := s.runRepo.GetLatest(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	if run == nil {
		return nil, ErrNoSnapshot
	}

	items, err := s.stockRepo.GetItems(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock items: %w", err)
	}
	warnings, err := s.stockRepo.GetWarnings(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync warnings: %w", err)
	}

	snapshot := &entity.StockSnapshot{Run: *run, Items: items, Warnings: warnings}
	s.cache.Set(company, snapshot)
	return snapshot, nil
}

// History lists sync runs of a company, newest first
func (s *stockSyncServiceImpl) History(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error) {
	company, err := s.resolveCompany(company)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.runRepo.List(ctx, company, limit, offset)
}
