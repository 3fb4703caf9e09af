package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/dispatcher"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/event"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/storage"
)

// SnapshotSource loads the latest snapshot of a company
type SnapshotSource interface {
	Latest(ctx context.Context, company string) (*entity.StockSnapshot, error)
}

// FileName returns where the workbook of a run is archived
func FileName(company, runID string) string {
	return fmt.Sprintf("%s/stock_%s.xlsx", storage.SanitizeName(company), runID)
}

// NewSyncedHandler archives a workbook for every stock.synced event
func NewSyncedHandler(source SnapshotSource, exporter port.ReportExporter, files port.FileStorage, logger *zap.Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		snapshot, err := source.Latest(ctx, evt.Company)
		if err != nil {
			return fmt.Errorf("failed to load snapshot for export: %w", err)
		}

		runID := evt.GetPayloadString(event.KeyRunID)
		if runID != "" && snapshot.Run.ID != runID {
			// a newer sync already replaced this snapshot; it will export itself
			logger.Info("Skipping export of superseded run",
				zap.String("run_id", runID),
				zap.String("latest_run_id", snapshot.Run.ID))
			return nil
		}

		content, err := exporter.Render(snapshot)
		if err != nil {
			return err
		}

		path := FileName(evt.Company, snapshot.Run.ID)
		if err := files.Save(ctx, path, content); err != nil {
			return err
		}

		logger.Info("Stock report archived",
			zap.String("company", evt.Company),
			zap.String("path", files.GetFullPath(path)))
		return nil
	}
}
