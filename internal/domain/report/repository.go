package report

import (
	"context"
	"time"
)

// ArchivePrefix is the storage prefix archived reports are kept under.
const ArchivePrefix = "reports"

// ExportLogRepository defines the interface for export history data access
type ExportLogRepository interface {
	Create(ctx context.Context, log ExportLog) error
	ListByEvent(ctx context.Context, eventID string, limit int) ([]ExportLog, error)
	// DeleteBefore removes entries created before cutoff and returns how many
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
