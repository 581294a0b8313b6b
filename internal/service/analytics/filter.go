package analytics

import (
	"strings"

	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

// FilterRecords returns the records whose team name, leader name or email
// contains query, ignoring case. An empty query returns every record. The
// result is always a new slice in roster order.
func FilterRecords(records []analytics.AttendanceRecord, query string) []analytics.AttendanceRecord {
	result := make([]analytics.AttendanceRecord, 0, len(records))
	if query == "" {
		return append(result, records...)
	}

	needle := strings.ToLower(query)
	for _, r := range records {
		if matches(r, needle) {
			result = append(result, r)
		}
	}
	return result
}

func matches(r analytics.AttendanceRecord, needle string) bool {
	return strings.Contains(strings.ToLower(r.TeamName), needle) ||
		strings.Contains(strings.ToLower(r.LeaderName), needle) ||
		strings.Contains(strings.ToLower(r.Email), needle)
}
