package analytics

import "context"

// AnalyticsService defines the read side of the attendance report view
type AnalyticsService interface {
	// GetDataset returns the full, unfiltered dataset for an event
	GetDataset(ctx context.Context, eventID string) (*AttendanceDataset, error)

	// GetView returns summary, chart series and the filtered roster
	GetView(ctx context.Context, req ViewRequest) (*ViewResponse, error)
}
