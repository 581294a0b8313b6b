package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
	"github.com/svce-events/attendance-report/internal/domain/report"
	"github.com/svce-events/attendance-report/internal/pkg/document"
	"github.com/svce-events/attendance-report/internal/pkg/storage"
	analyticsService "github.com/svce-events/attendance-report/internal/service/analytics"
	"golang.org/x/sync/errgroup"
)

const defaultHistoryLimit = 20

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	dotRun        = regexp.MustCompile(`\.{2,}`)
)

// Options configures rendering and the optional side outputs of an export.
type Options struct {
	Layout         document.Layout
	Author         string
	WatermarkPath  string
	WatermarkText  string
	ArchiveEnabled bool
	HistoryLimit   int
}

type ExportServiceImpl struct {
	analyticsService analytics.AnalyticsService
	fileStorage      storage.FileStorage
	exportLogRepo    report.ExportLogRepository
	opts             Options
	renderers        map[report.Format]document.Renderer
	now              func() time.Time
}

// NewExportService builds the export controller. fileStorage serves the
// watermark asset and receives archived reports; it and exportLogRepo may be
// nil.
func NewExportService(
	analyticsService analytics.AnalyticsService,
	fileStorage storage.FileStorage,
	exportLogRepo report.ExportLogRepository,
	opts Options,
) report.ExportService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	return &ExportServiceImpl{
		analyticsService: analyticsService,
		fileStorage:      fileStorage,
		exportLogRepo:    exportLogRepo,
		opts:             opts,
		renderers: map[report.Format]document.Renderer{
			report.FormatPDF:  document.NewPDFRenderer(opts.Layout, opts.Author),
			report.FormatXLSX: document.NewXLSXRenderer(opts.Layout),
		},
		now: time.Now,
	}
}

// Export fetches the unfiltered dataset and loads the watermark in parallel,
// then lays out and renders the report.
func (s *ExportServiceImpl) Export(ctx context.Context, req report.ExportRequest, progress report.ProgressFunc) (*report.Artifact, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	notify(progress, report.Progress{EventID: req.EventID, Stage: report.StageFetching})

	var (
		dataset   *analytics.AttendanceDataset
		watermark *document.Watermark
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dataset, err = s.analyticsService.GetDataset(gctx, req.EventID)
		return err
	})
	g.Go(func() error {
		watermark = s.loadWatermark(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		notify(progress, report.Progress{EventID: req.EventID, Stage: report.StageFailed, Error: err.Error()})
		return nil, err
	}

	return s.render(ctx, dataset, req.Format, watermark, progress)
}

// ExportDataset renders a dataset the caller already holds.
func (s *ExportServiceImpl) ExportDataset(ctx context.Context, dataset *analytics.AttendanceDataset, format report.Format, progress report.ProgressFunc) (*report.Artifact, error) {
	if dataset == nil {
		notify(progress, report.Progress{Stage: report.StageFailed, Error: analytics.ErrDataUnavailable.Error()})
		return nil, analytics.ErrDataUnavailable
	}
	req := report.ExportRequest{EventID: dataset.EventID, Format: format}
	req.Normalize()

	return s.render(ctx, dataset, req.Format, s.loadWatermark(ctx), progress)
}

// ListExports returns the export history of an event, newest first.
func (s *ExportServiceImpl) ListExports(ctx context.Context, eventID string) ([]report.ExportLog, error) {
	req := analytics.ViewRequest{EventID: eventID}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.exportLogRepo == nil {
		return []report.ExportLog{}, nil
	}

	logs, err := s.exportLogRepo.ListByEvent(ctx, eventID, s.opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	if logs == nil {
		logs = []report.ExportLog{}
	}
	return logs, nil
}

func (s *ExportServiceImpl) loadWatermark(ctx context.Context) *document.Watermark {
	var loader document.AssetLoader
	if s.fileStorage != nil {
		loader = s.fileStorage
	}
	return document.LoadWatermark(ctx, loader, s.opts.WatermarkPath, s.opts.WatermarkText)
}

// render runs layout and rendering. Any failure, panics included, is reported
// as report.ErrExportFailed with no artifact.
func (s *ExportServiceImpl) render(
	ctx context.Context,
	dataset *analytics.AttendanceDataset,
	format report.Format,
	watermark *document.Watermark,
	progress report.ProgressFunc,
) (artifact *report.Artifact, err error) {
	eventID := dataset.EventID

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Report export panicked", "event_id", eventID, "panic", r)
			artifact = nil
			err = fmt.Errorf("%w: %v", report.ErrExportFailed, r)
		}
		if err != nil {
			notify(progress, report.Progress{EventID: eventID, Stage: report.StageFailed, Error: err.Error()})
		}
	}()

	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", report.ErrUnsupportedFormat, format)
	}

	generatedAt := s.now()
	in := document.Input{
		GeneratedAt: generatedAt,
		Summary:     dataset.Summary,
		Stats:       analyticsService.Aggregate(dataset.Summary),
		Records:     dataset.Records,
	}

	notify(progress, report.Progress{EventID: eventID, Stage: report.StageLayingOut})
	pages, err := document.NewPaginator(s.opts.Layout, watermark).Paginate(in)
	if err != nil {
		slog.Error("Failed to lay out report", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	fileName := BuildFileName(dataset.Summary.EventName, generatedAt, renderer.Extension())
	notify(progress, report.Progress{EventID: eventID, Stage: report.StageRendering, FileName: fileName, PageCount: len(pages)})

	content, err := renderer.Render(document.Document{Input: in, Pages: pages, Watermark: watermark})
	if err != nil {
		slog.Error("Failed to render report", "event_id", eventID, "format", format, "error", err)
		return nil, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	artifact = &report.Artifact{
		FileName:    fileName,
		ContentType: renderer.ContentType(),
		Format:      format,
		PageCount:   len(pages),
		GeneratedAt: generatedAt,
		Content:     content,
	}

	s.archive(ctx, eventID, artifact)
	s.record(ctx, eventID, artifact)

	slog.Info("Report exported", "event_id", eventID, "file", fileName, "pages", len(pages), "bytes", len(content))
	notify(progress, report.Progress{EventID: eventID, Stage: report.StageCompleted, FileName: fileName, PageCount: len(pages)})

	return artifact, nil
}

// archive keeps a copy under <ArchivePrefix>/<eventID>/. Failures are logged only.
func (s *ExportServiceImpl) archive(ctx context.Context, eventID string, artifact *report.Artifact) {
	if !s.opts.ArchiveEnabled || s.fileStorage == nil {
		return
	}
	key := path.Join(report.ArchivePrefix, eventID, artifact.FileName)
	if _, err := s.fileStorage.Upload(ctx, bytes.NewReader(artifact.Content), key, artifact.ContentType); err != nil {
		slog.Warn("Failed to archive report", "event_id", eventID, "path", key, "error", err)
	}
}

// record appends to the export history. Failures are logged only.
func (s *ExportServiceImpl) record(ctx context.Context, eventID string, artifact *report.Artifact) {
	if s.exportLogRepo == nil {
		return
	}
	id, err := uuid.NewV7()
	if err != nil {
		slog.Warn("Failed to generate export log id", "error", err)
		return
	}
	entry := report.ExportLog{
		ID:        id.String(),
		EventID:   eventID,
		FileName:  artifact.FileName,
		Format:    artifact.Format,
		PageCount: artifact.PageCount,
		SizeBytes: len(artifact.Content),
		CreatedAt: artifact.GeneratedAt,
	}
	if err := s.exportLogRepo.Create(ctx, entry); err != nil {
		slog.Warn("Failed to record export", "event_id", eventID, "error", err)
	}
}

// BuildFileName returns Attendance_Report_<event>_<YYYY-MM-DD>.<ext>. Runs of
// whitespace in the event name become a single underscore and any rune other
// than a letter, digit, '.', '-' or '_' becomes '_'; runs of dots collapse to
// one, so the name never carries a path. A missing name becomes "Event". The
// date is taken in UTC.
func BuildFileName(eventName string, at time.Time, ext string) string {
	name := sanitizeName(eventName)
	if name == "" {
		name = "Event"
	}
	return fmt.Sprintf("Attendance_Report_%s_%s.%s", name, at.UTC().Format("2006-01-02"), ext)
}

func sanitizeName(s string) string {
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '.', r == '-', r == '_':
			return r
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			return r
		default:
			return '_'
		}
	}, s)
	return dotRun.ReplaceAllString(s, ".")
}

func notify(progress report.ProgressFunc, p report.Progress) {
	if progress != nil {
		progress(p)
	}
}
