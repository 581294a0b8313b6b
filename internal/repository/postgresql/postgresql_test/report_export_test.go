package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svce-events/attendance-report/internal/domain/report"
	"github.com/svce-events/attendance-report/internal/repository/postgresql"
)

func TestExportLogRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	db := requireTestDB(t)
	truncateTables(t, ctx, db)

	repo := postgresql.NewExportLogRepository(db)
	base := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := repo.Create(ctx, report.ExportLog{
			ID:        uuid.Must(uuid.NewV7()).String(),
			EventID:   "evt-1",
			FileName:  "Attendance_Report_Event_2025-03-07.pdf",
			Format:    report.FormatPDF,
			PageCount: i + 1,
			SizeBytes: 1000 * (i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	require.NoError(t, repo.Create(ctx, report.ExportLog{
		ID:        uuid.Must(uuid.NewV7()).String(),
		EventID:   "evt-2",
		FileName:  "other.xlsx",
		Format:    report.FormatXLSX,
		CreatedAt: base,
	}))

	logs, err := repo.ListByEvent(ctx, "evt-1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 3, logs[0].PageCount, "newest first")
	assert.Equal(t, 2, logs[1].PageCount)
	assert.Equal(t, report.FormatPDF, logs[0].Format)
	assert.True(t, logs[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	none, err := repo.ListByEvent(ctx, "evt-3", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestExportLogRepository_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	db := requireTestDB(t)
	truncateTables(t, ctx, db)

	repo := postgresql.NewExportLogRepository(db)
	base := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, report.ExportLog{
			ID:        uuid.Must(uuid.NewV7()).String(),
			EventID:   "evt-1",
			FileName:  "Attendance_Report_Event_2025-03-07.pdf",
			Format:    report.FormatPDF,
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	deleted, err := repo.DeleteBefore(ctx, base.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	logs, err := repo.ListByEvent(ctx, "evt-1", 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}
