package port

import (
	"context"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
)

// SyncRunRepository defines persistence operations for SyncRun
type SyncRunRepository interface {
	Create(ctx context.Context, run *entity.SyncRun) error
	Finish(ctx context.Context, run *entity.SyncRun) error
	GetByID(ctx context.Context, id string) (*entity.SyncRun, error)
	GetLatest(ctx context.Context, company string) (*entity.SyncRun, error)
	List(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error)
}

// StockSnapshotRepository defines persistence operations for the stock
// records and warnings of a completed run
type StockSnapshotRepository interface {
	SaveItems(ctx context.Context, runID string, items []entity.StockItem) error
	GetItems(ctx context.Context, runID string) ([]entity.StockItem, error)
	SaveWarnings(ctx context.Context, runID string, warnings []entity.SyncWarning) error
	GetWarnings(ctx context.Context, runID string) ([]entity.SyncWarning, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
