package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
	"github.com/svce-events/attendance-report/internal/pkg/validator"
)

type stubSource struct {
	dataset *analytics.AttendanceDataset
	err     error
	calls   int
}

func (s *stubSource) GetDataset(ctx context.Context, eventID string) (*analytics.AttendanceDataset, error) {
	s.calls++
	return s.dataset, s.err
}

func viewFixture() *analytics.AttendanceDataset {
	return &analytics.AttendanceDataset{
		EventID: "evt-1",
		Summary: analytics.EventSummary{EventName: "Viz A Thon 2025", TotalTeamsCount: 4, PresentTeamsCount: 2, AbsentTeamsCount: 2},
		Records: filterFixture(),
	}
}

func TestAnalyticsService_GetView(t *testing.T) {
	svc := NewAnalyticsService(&stubSource{dataset: viewFixture()})

	view, err := svc.GetView(context.Background(), analytics.ViewRequest{EventID: "evt-1", Query: "alpha"})
	require.NoError(t, err)

	assert.Equal(t, "Viz A Thon 2025", view.Event)
	assert.Equal(t, int64(50), view.Stats.ParticipationRate)
	assert.Equal(t, 3, view.ShownCount)
	assert.Equal(t, 4, view.TotalCount)
	assert.Empty(t, view.EmptyMessage)
	assert.Len(t, view.Overview, 4, "chart series always covers the full roster")
	assert.Equal(t, 100, view.Overview[0].Attendance)
	assert.Equal(t, 0, view.Overview[1].Attendance)
	require.Len(t, view.Distribution, 2)
	assert.Equal(t, analytics.DistributionSlice{Name: "Present", Value: 2, Color: "#10b981"}, view.Distribution[0])
}

func TestAnalyticsService_GetView_EmptyMessages(t *testing.T) {
	svc := NewAnalyticsService(&stubSource{dataset: viewFixture()})
	view, err := svc.GetView(context.Background(), analytics.ViewRequest{EventID: "evt-1", Query: "zzz"})
	require.NoError(t, err)
	assert.Equal(t, "No results found", view.EmptyMessage)

	empty := &analytics.AttendanceDataset{EventID: "evt-2"}
	svc = NewAnalyticsService(&stubSource{dataset: empty})
	view, err = svc.GetView(context.Background(), analytics.ViewRequest{EventID: "evt-2"})
	require.NoError(t, err)
	assert.Equal(t, "No Teams Registered", view.EmptyMessage)
	assert.Equal(t, analytics.DefaultEventName, view.Event)
}

func TestAnalyticsService_GetDataset_WrapsSourceErrors(t *testing.T) {
	svc := NewAnalyticsService(&stubSource{err: errors.New("connection refused")})
	_, err := svc.GetDataset(context.Background(), "evt-1")
	assert.ErrorIs(t, err, analytics.ErrDataUnavailable)

	svc = NewAnalyticsService(&stubSource{})
	_, err = svc.GetDataset(context.Background(), "evt-1")
	assert.ErrorIs(t, err, analytics.ErrDataUnavailable)
}

func TestAnalyticsService_GetDataset_InvalidEventID(t *testing.T) {
	source := &stubSource{dataset: viewFixture()}
	svc := NewAnalyticsService(source)

	_, err := svc.GetDataset(context.Background(), "../admin")
	var validationErrs validator.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, 0, source.calls)
}
