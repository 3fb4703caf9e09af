package port

import (
	"context"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
)

// FileStorage defines file storage operations
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	GetFullPath(relativePath string) string
}

// SnapshotCache keeps the latest snapshot per company in memory
type SnapshotCache interface {
	Get(company string) (*entity.StockSnapshot, bool)
	Set(company string, snapshot *entity.StockSnapshot)
	Invalidate(company string)
}

// ReportExporter renders a snapshot as a spreadsheet
type ReportExporter interface {
	Render(snapshot *entity.StockSnapshot) ([]byte, error)
}
