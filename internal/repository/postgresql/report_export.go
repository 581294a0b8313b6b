package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/svce-events/attendance-report/internal/domain/report"
	"github.com/svce-events/attendance-report/internal/pkg/database"
)

type exportLogRepositoryImpl struct {
	db *database.DB
}

func NewExportLogRepository(db *database.DB) report.ExportLogRepository {
	return &exportLogRepositoryImpl{db: db}
}

// Create records a finished export
func (r *exportLogRepositoryImpl) Create(ctx context.Context, log report.ExportLog) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO report_exports (id, event_id, file_name, format, page_count, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		log.ID,
		log.EventID,
		log.FileName,
		string(log.Format),
		log.PageCount,
		log.SizeBytes,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create export log: %w", err)
	}

	return nil
}

// ListByEvent returns the newest exports of an event first
func (r *exportLogRepositoryImpl) ListByEvent(ctx context.Context, eventID string, limit int) ([]report.ExportLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, event_id, file_name, format, page_count, size_bytes, created_at
		FROM report_exports
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list export logs: %w", err)
	}
	defer rows.Close()

	logs := []report.ExportLog{}
	for rows.Next() {
		var log report.ExportLog
		var format string
		if err := rows.Scan(
			&log.ID,
			&log.EventID,
			&log.FileName,
			&format,
			&log.PageCount,
			&log.SizeBytes,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export log: %w", err)
		}
		log.Format = report.Format(format)
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export logs: %w", err)
	}

	return logs, nil
}

// DeleteBefore removes export history older than cutoff
func (r *exportLogRepositoryImpl) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM report_exports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete export logs: %w", err)
	}

	return tag.RowsAffected(), nil
}
