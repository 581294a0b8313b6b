package report

import (
	"context"

	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

// ExportService defines the interface for report export
type ExportService interface {
	// Export fetches the unfiltered dataset for the event and renders it
	Export(ctx context.Context, req ExportRequest, progress ProgressFunc) (*Artifact, error)

	// ExportDataset renders an already loaded dataset
	ExportDataset(ctx context.Context, dataset *analytics.AttendanceDataset, format Format, progress ProgressFunc) (*Artifact, error)

	// ListExports returns the most recent exports for an event
	ListExports(ctx context.Context, eventID string) ([]ExportLog, error)
}
