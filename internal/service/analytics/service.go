package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

const (
	presentColor = "#10b981"
	absentColor  = "#ef4444"
)

type AnalyticsServiceImpl struct {
	source analytics.DatasetSource
}

func NewAnalyticsService(source analytics.DatasetSource) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		source: source,
	}
}

// GetDataset loads the unfiltered dataset. Every source failure is reported
// as analytics.ErrDataUnavailable.
func (s *AnalyticsServiceImpl) GetDataset(ctx context.Context, eventID string) (*analytics.AttendanceDataset, error) {
	req := analytics.ViewRequest{EventID: eventID}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dataset, err := s.source.GetDataset(ctx, eventID)
	if err != nil {
		slog.Error("Failed to load attendance dataset", "event_id", eventID, "error", err)
		if errors.Is(err, analytics.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", analytics.ErrDataUnavailable, err)
	}
	if dataset == nil {
		return nil, analytics.ErrDataUnavailable
	}

	if !dataset.Summary.Consistent() {
		slog.Warn("Attendance counters disagree, using counters as given",
			"event_id", eventID,
			"total", dataset.Summary.TotalTeamsCount,
			"present", dataset.Summary.PresentTeamsCount,
			"absent", dataset.Summary.AbsentTeamsCount,
		)
	}

	return dataset, nil
}

// GetView builds the on-screen report: stats, chart series and the roster
// filtered by req.Query.
func (s *AnalyticsServiceImpl) GetView(ctx context.Context, req analytics.ViewRequest) (*analytics.ViewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dataset, err := s.GetDataset(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	summary := dataset.Summary
	teams := FilterRecords(dataset.Records, req.Query)

	overview := make([]analytics.OverviewPoint, 0, len(dataset.Records))
	for _, r := range dataset.Records {
		attendance := 0
		if r.IsPresent {
			attendance = 100
		}
		overview = append(overview, analytics.OverviewPoint{Name: r.TeamName, Attendance: attendance})
	}

	resp := &analytics.ViewResponse{
		EventID: dataset.EventID,
		Event:   summary.DisplayName(),
		Summary: summary,
		Stats:   Aggregate(summary),
		Distribution: []analytics.DistributionSlice{
			{Name: "Present", Value: summary.PresentTeamsCount, Color: presentColor},
			{Name: "Absent", Value: summary.AbsentTeamsCount, Color: absentColor},
		},
		Overview:   overview,
		Query:      req.Query,
		Teams:      teams,
		ShownCount: len(teams),
		TotalCount: summary.TotalTeamsCount,
	}

	if len(teams) == 0 {
		if req.Query != "" {
			resp.EmptyMessage = "No results found"
		} else {
			resp.EmptyMessage = "No Teams Registered"
		}
	}

	return resp, nil
}
