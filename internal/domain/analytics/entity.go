package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultEventName is shown in titles when the upstream payload has no event name.
const DefaultEventName = "Viz-A-Thon"

// Year holds a study year as sent upstream. Some events send integers (2),
// others short codes ("II", "2nd").
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid year: %w", err)
		}
		*y = Year(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid year: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*y = Year(strconv.FormatInt(i, 10))
		return nil
	}
	*y = Year(n.String())
	return nil
}

func (y Year) String() string {
	return string(y)
}

// AttendanceRecord is one registered team for an event.
type AttendanceRecord struct {
	ID         string `json:"id"`
	TeamName   string `json:"team_name"`
	LeaderName string `json:"leader_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Year       Year   `json:"year"`
	IsPresent  bool   `json:"is_present"`
}

// Status returns the label used in the roster table.
func (r AttendanceRecord) Status() string {
	if r.IsPresent {
		return "Present"
	}
	return "Absent"
}

// EventSummary carries the counters reported by the analytics provider.
// Counters are trusted as given and are never recomputed from the roster.
type EventSummary struct {
	EventName         string `json:"event_name"`
	TotalTeamsCount   int    `json:"total_teams_count"`
	PresentTeamsCount int    `json:"present_teams_count"`
	AbsentTeamsCount  int    `json:"absent_teams_count"`
}

// DisplayName returns the event name, or the placeholder when absent.
func (s EventSummary) DisplayName() string {
	if s.EventName == "" {
		return DefaultEventName
	}
	return s.EventName
}

// Consistent reports whether present + absent adds up to total.
func (s EventSummary) Consistent() bool {
	return s.PresentTeamsCount+s.AbsentTeamsCount == s.TotalTeamsCount
}

// AttendanceDataset is the read-only input for one report view.
type AttendanceDataset struct {
	EventID string
	Summary EventSummary
	Records []AttendanceRecord
}
