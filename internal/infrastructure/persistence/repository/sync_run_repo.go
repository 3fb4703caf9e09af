package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/persistence/sqlite"
)

const syncRunColumns = `id, company_name, status, started_at, finished_at, item_count, warning_count, error_message`

// SyncRunRepository implements port.SyncRunRepository
type SyncRunRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSyncRunRepository creates a new sync run repository
func NewSyncRunRepository(db *sql.DB, logger *zap.Logger) port.SyncRunRepository {
	return &SyncRunRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a run, assigning an ID and start time when missing
func (r *SyncRunRepository) Create(ctx context.Context, run *entity.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = entity.SyncStatusRunning
	}

	query := `INSERT INTO sync_runs (` + syncRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		run.ID,
		run.CompanyName,
		run.Status,
		run.StartedAt,
		run.FinishedAt,
		run.ItemCount,
		run.WarningCount,
		run.ErrorMessage,
	)
	if err != nil {
		r.logger.Error("Failed to create sync run", zap.String("company", run.CompanyName), zap.Error(err))
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	return nil
}

// Finish stores the terminal status and counters of a run
func (r *SyncRunRepository) Finish(ctx context.Context, run *entity.SyncRun) error {
	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}

	query := `
		UPDATE sync_runs
		SET status = ?, finished_at = ?, item_count = ?, warning_count = ?, error_message = ?
		WHERE id = ?
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		run.Status,
		run.FinishedAt,
		run.ItemCount,
		run.WarningCount,
		run.ErrorMessage,
		run.ID,
	)
	if err != nil {
		r.logger.Error("Failed to finish sync run", zap.String("id", run.ID), zap.Error(err))
		return fmt.Errorf("failed to finish sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found: %s", run.ID)
	}
	return nil
}

// GetByID retrieves a run by ID
func (r *SyncRunRepository) GetByID(ctx context.Context, id string) (*entity.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = ?`

	run, err := scanSyncRun(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get sync run", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}
	return run, nil
}

// GetLatest returns the most recent completed run of a company, or nil
func (r *SyncRunRepository) GetLatest(ctx context.Context, company string) (*entity.SyncRun, error) {
	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE company_name = ? AND status = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`

	run, err := scanSyncRun(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, company, entity.SyncStatusCompleted))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get latest sync run", zap.String("company", company), zap.Error(err))
		return nil, fmt.Errorf("failed to get latest sync run: %w", err)
	}
	return run, nil
}

// List returns runs of a company, newest first. An empty company lists all.
func (r *SyncRunRepository) List(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE (? = '' OR company_name = ?)
		ORDER BY started_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, company, company, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list sync runs", zap.Error(err))
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSyncRun(row rowScanner) (*entity.SyncRun, error) {
	var (
		run        entity.SyncRun
		finishedAt sql.NullTime
	)
	err := row.Scan(
		&run.ID,
		&run.CompanyName,
		&run.Status,
		&run.StartedAt,
		&finishedAt,
		&run.ItemCount,
		&run.WarningCount,
		&run.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

// Verify interface compliance
var _ port.SyncRunRepository = (*SyncRunRepository)(nil)
