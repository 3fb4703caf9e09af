package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/persistence/sqlite"
)

// StockSnapshotRepository implements port.StockSnapshotRepository
type StockSnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStockSnapshotRepository creates a new stock snapshot repository
func NewStockSnapshotRepository(db *sql.DB, logger *zap.Logger) port.StockSnapshotRepository {
	return &StockSnapshotRepository{
		db:     db,
		logger: logger,
	}
}

// SaveItems stores items and their godown allocations in report order.
// Callers should run it inside a transaction.
func (r *StockSnapshotRepository) SaveItems(ctx context.Context, runID string, items []entity.StockItem) error {
	exec := sqlite.ExecutorFor(ctx, r.db)

	itemQuery := `
		INSERT INTO stock_items (
			run_id, position, name, company_name, hsn_code, gst_percentage, mrp,
			exclusive_rate, rate_after_gst, total_quantity, unit, priced
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	allocQuery := `INSERT INTO godown_allocations (item_id, position, godown_name, quantity) VALUES (?, ?, ?, ?)`

	for i, item := range items {
		result, err := exec.ExecContext(ctx, itemQuery,
			runID,
			i,
			item.Name,
			item.CompanyName,
			item.HSNCode,
			item.GSTPercentage,
			item.MRP,
			item.ExclusiveRate,
			item.RateAfterGST,
			item.TotalQuantity,
			item.Unit,
			item.Priced,
		)
		if err != nil {
			r.logger.Error("Failed to save stock item",
				zap.String("run_id", runID),
				zap.String("item", item.Name),
				zap.Error(err))
			return fmt.Errorf("failed to save stock item %q: %w", item.Name, err)
		}

		itemID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		for j, g := range item.Godowns {
			if _, err := exec.ExecContext(ctx, allocQuery, itemID, j, g.GodownName, g.Quantity); err != nil {
				return fmt.Errorf("failed to save godown allocation for %q: %w", item.Name, err)
			}
		}
	}
	return nil
}

// GetItems loads the items of a run with their allocations
func (r *StockSnapshotRepository) GetItems(ctx context.Context, runID string) ([]entity.StockItem, error) {
	exec := sqlite.ExecutorFor(ctx, r.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT id, name, company_name, hsn_code, gst_percentage, mrp, exclusive_rate,
			rate_after_gst, total_quantity, unit, priced
		FROM stock_items
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		r.logger.Error("Failed to get stock items", zap.String("run_id", runID), zap.Error(err))
		return nil, fmt.Errorf("failed to get stock items: %w", err)
	}

	items := []entity.StockItem{}
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id   int64
			item entity.StockItem
		)
		if err := rows.Scan(
			&id,
			&item.Name,
			&item.CompanyName,
			&item.HSNCode,
			&item.GSTPercentage,
			&item.MRP,
			&item.ExclusiveRate,
			&item.RateAfterGST,
			&item.TotalQuantity,
			&item.Unit,
			&item.Priced,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		item.Godowns = []entity.GodownAllocation{}
		index[id] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	allocRows, err := exec.QueryContext(ctx, `
		SELECT g.item_id, g.godown_name, g.quantity
		FROM godown_allocations g
		JOIN stock_items s ON s.id = g.item_id
		WHERE s.run_id = ?
		ORDER BY g.item_id, g.position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get godown allocations: %w", err)
	}
	defer allocRows.Close()

	for allocRows.Next() {
		var (
			itemID int64
			name   string
			qty    decimal.Decimal
		)
		if err := allocRows.Scan(&itemID, &name, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan godown allocation: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Godowns = append(items[i].Godowns, entity.GodownAllocation{GodownName: name, Quantity: qty})
		}
	}
	return items, allocRows.Err()
}

// SaveWarnings stores the reconciliation warnings of a run
func (r *StockSnapshotRepository) SaveWarnings(ctx context.Context, runID string, warnings []entity.SyncWarning) error {
	exec := sqlite.ExecutorFor(ctx, r.db)
	query := `INSERT INTO sync_warnings (run_id, source, code, item_name, message) VALUES (?, ?, ?, ?, ?)`

	for _, w := range warnings {
		if _, err := exec.ExecContext(ctx, query, runID, w.Source, w.Code, w.ItemName, w.Message); err != nil {
			r.logger.Error("Failed to save sync warning", zap.String("run_id", runID), zap.Error(err))
			return fmt.Errorf("failed to save sync warning: %w", err)
		}
	}
	return nil
}

// GetWarnings loads the warnings of a run in insertion order
func (r *StockSnapshotRepository) GetWarnings(ctx context.Context, runID string) ([]entity.SyncWarning, error) {
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, `
		SELECT source, code, item_name, message
		FROM sync_warnings
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync warnings: %w", err)
	}
	defer rows.Close()

	warnings := []entity.SyncWarning{}
	for rows.Next() {
		var w entity.SyncWarning
		if err := rows.Scan(&w.Source, &w.Code, &w.ItemName, &w.Message); err != nil {
			return nil, fmt.Errorf("failed to scan sync warning: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// Verify interface compliance
var _ port.StockSnapshotRepository = (*StockSnapshotRepository)(nil)
