package analytics

import "context"

// DatasetSource loads the attendance dataset for one event.
// Implementations return an error wrapping ErrDataUnavailable when the event
// cannot be loaded for any reason.
type DatasetSource interface {
	GetDataset(ctx context.Context, eventID string) (*AttendanceDataset, error)
}
