package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
	"github.com/svce-events/attendance-report/internal/pkg/database"
)

type analyticsRepositoryImpl struct {
	db *database.DB
}

// NewAnalyticsRepository reads datasets from the events and teams tables.
func NewAnalyticsRepository(db *database.DB) analytics.DatasetSource {
	return &analyticsRepositoryImpl{db: db}
}

// GetDataset reads the counters and the roster in one read-only snapshot so
// they describe the same moment.
func (r *analyticsRepositoryImpl) GetDataset(ctx context.Context, eventID string) (*analytics.AttendanceDataset, error) {
	dataset := &analytics.AttendanceDataset{EventID: eventID}

	err := WithTransaction(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(ctx context.Context) error {
		summary, err := r.getSummary(ctx, eventID)
		if err != nil {
			return err
		}
		dataset.Summary = summary

		records, err := r.listRecords(ctx, eventID)
		if err != nil {
			return err
		}
		dataset.Records = records
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dataset, nil
}

func (r *analyticsRepositoryImpl) getSummary(ctx context.Context, eventID string) (analytics.EventSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(e.name, ''),
			COUNT(t.id),
			COUNT(t.id) FILTER (WHERE t.is_present),
			COUNT(t.id) FILTER (WHERE NOT t.is_present)
		FROM events e
		LEFT JOIN teams t ON t.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.id, e.name
	`

	var s analytics.EventSummary
	err := q.QueryRow(ctx, query, eventID).Scan(
		&s.EventName,
		&s.TotalTeamsCount,
		&s.PresentTeamsCount,
		&s.AbsentTeamsCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, analytics.ErrDataUnavailable
		}
		return s, fmt.Errorf("failed to get event summary: %w", err)
	}

	return s, nil
}

func (r *analyticsRepositoryImpl) listRecords(ctx context.Context, eventID string) ([]analytics.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, team_name, leader_name, email, department, year, is_present
		FROM teams
		WHERE event_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	records := []analytics.AttendanceRecord{}
	for rows.Next() {
		var rec analytics.AttendanceRecord
		var year string
		if err := rows.Scan(
			&rec.ID,
			&rec.TeamName,
			&rec.LeaderName,
			&rec.Email,
			&rec.Department,
			&year,
			&rec.IsPresent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		rec.Year = analytics.Year(year)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return records, nil
}
