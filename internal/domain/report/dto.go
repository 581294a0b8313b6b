package report

import (
	"strings"
	"time"

	"github.com/svce-events/attendance-report/internal/pkg/validator"
)

// ========================================
// EXPORT REQUEST
// ========================================

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var supportedFormats = []string{string(FormatPDF), string(FormatXLSX)}

type ExportRequest struct {
	EventID string `json:"event_id"`
	Format  Format `json:"format"`
}

// Normalize applies defaults before validation.
func (r *ExportRequest) Normalize() {
	r.Format = Format(strings.ToLower(strings.TrimSpace(string(r.Format))))
	if r.Format == "" {
		r.Format = FormatPDF
	}
}

func (r *ExportRequest) Validate() error {
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

	if !validator.IsInSlice(string(r.Format), supportedFormats) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of " + strings.Join(supportedFormats, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// ARTIFACT
// ========================================

// Artifact is a finished export. The service keeps no reference to it once
// returned.
type Artifact struct {
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Format      Format    `json:"format"`
	PageCount   int       `json:"page_count"`
	GeneratedAt time.Time `json:"generated_at"`
	Content     []byte    `json:"-"`
}

// ========================================
// PROGRESS
// ========================================

type ProgressStage string

const (
	StageFetching  ProgressStage = "fetching"
	StageLayingOut ProgressStage = "laying_out"
	StageRendering ProgressStage = "rendering"
	StageCompleted ProgressStage = "completed"
	StageFailed    ProgressStage = "failed"
)

type Progress struct {
	EventID   string        `json:"event_id"`
	Stage     ProgressStage `json:"stage"`
	FileName  string        `json:"file_name,omitempty"`
	PageCount int           `json:"page_count,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ProgressFunc receives stage changes during an export. It is called
// synchronously from the exporting goroutine.
type ProgressFunc func(Progress)

// ========================================
// EXPORT HISTORY
// ========================================

type ExportLog struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	FileName  string    `json:"file_name"`
	Format    Format    `json:"format"`
	PageCount int       `json:"page_count"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
