package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/svce-events/attendance-report/internal/pkg/validator"
)

// ========================================
// UPSTREAM PAYLOAD
// ========================================

// EventAnalyticsPayload is the body returned by GET /api/v1/analytics/{eventID}
// on the analytics provider.
type EventAnalyticsPayload struct {
	Event             string        `json:"event"`
	TotalTeamsCount   int           `json:"totalTeamsCount"`
	PresentTeamsCount int           `json:"presentTeamsCount"`
	AbsentTeamsCount  int           `json:"absentTeamsCount"`
	TotalTeams        []TeamPayload `json:"totalTeams"`
}

type TeamPayload struct {
	ID         string `json:"_id"`
	TeamName   string `json:"teamName"`
	LeaderName string `json:"leaderName"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Year       Year   `json:"year"`
	IsPresent  bool   `json:"isPresent"`
}

// ToDataset converts the payload, keeping roster order.
func (p EventAnalyticsPayload) ToDataset(eventID string) *AttendanceDataset {
	records := make([]AttendanceRecord, 0, len(p.TotalTeams))
	for _, t := range p.TotalTeams {
		records = append(records, AttendanceRecord{
			ID:         t.ID,
			TeamName:   t.TeamName,
			LeaderName: t.LeaderName,
			Email:      t.Email,
			Department: t.Department,
			Year:       t.Year,
			IsPresent:  t.IsPresent,
		})
	}

	return &AttendanceDataset{
		EventID: eventID,
		Summary: EventSummary{
			EventName:         p.Event,
			TotalTeamsCount:   p.TotalTeamsCount,
			PresentTeamsCount: p.PresentTeamsCount,
			AbsentTeamsCount:  p.AbsentTeamsCount,
		},
		Records: records,
	}
}

// ========================================
// AGGREGATES
// ========================================

// Stats are the derived rates for one summary.
type Stats struct {
	// ParticipationRate is present/total as a whole percentage.
	ParticipationRate int64 `json:"participation_rate"`
	// PresentPercentage and AbsentPercentage are rounded to one decimal place.
	PresentPercentage decimal.Decimal `json:"present_percentage"`
	AbsentPercentage  decimal.Decimal `json:"absent_percentage"`
}

// ========================================
// VIEW
// ========================================

type ViewRequest struct {
	EventID string `json:"event_id"`
	Query   string `json:"q"`
}

func (r *ViewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	} else if !validator.IsValidEventID(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id must contain only letters, digits, '-' or '_'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DistributionSlice feeds the present/absent donut chart.
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// OverviewPoint feeds the per-team attendance area chart.
type OverviewPoint struct {
	Name       string `json:"name"`
	Attendance int    `json:"attendance"`
}

type ViewResponse struct {
	EventID      string              `json:"event_id"`
	Event        string              `json:"event"`
	Summary      EventSummary        `json:"summary"`
	Stats        Stats               `json:"stats"`
	Distribution []DistributionSlice `json:"distribution"`
	Overview     []OverviewPoint     `json:"overview"`
	Query        string              `json:"query,omitempty"`
	Teams        []AttendanceRecord  `json:"teams"`
	ShownCount   int                 `json:"shown_count"`
	TotalCount   int                 `json:"total_count"`
	EmptyMessage string              `json:"empty_message,omitempty"`
}
