package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/svce-events/attendance-report/internal/domain/report"
)

// ArchivePruner removes stored files under prefix last modified before cutoff.
type ArchivePruner interface {
	PruneOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}

// RetentionJobs drops export history and archived reports older than the
// retention window. Either dependency may be nil.
type RetentionJobs struct {
	exportLogRepo report.ExportLogRepository
	archive       ArchivePruner
	retention     time.Duration
	now           func() time.Time
}

func NewRetentionJobs(exportLogRepo report.ExportLogRepository, archive ArchivePruner, retention time.Duration) *RetentionJobs {
	return &RetentionJobs{
		exportLogRepo: exportLogRepo,
		archive:       archive,
		retention:     retention,
		now:           time.Now,
	}
}

func (j *RetentionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_expired_exports", 1*time.Hour, j.PruneExpiredExports)
}

// PruneExpiredExports deletes history rows and archive files past retention.
func (j *RetentionJobs) PruneExpiredExports(ctx context.Context) error {
	if j.retention <= 0 {
		return nil
	}
	cutoff := j.now().Add(-j.retention)

	var errs []error
	if j.exportLogRepo != nil {
		deleted, err := j.exportLogRepo.DeleteBefore(ctx, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("prune export history: %w", err))
		} else if deleted > 0 {
			slog.Info("Cron: Pruned export history", "deleted", deleted, "cutoff", cutoff)
		}
	}
	if j.archive != nil {
		removed, err := j.archive.PruneOlderThan(ctx, report.ArchivePrefix, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("prune archived reports: %w", err))
		} else if removed > 0 {
			slog.Info("Cron: Pruned archived reports", "removed", removed, "cutoff", cutoff)
		}
	}
	return errors.Join(errs...)
}
