package report

import "errors"

var (
	ErrExportFailed      = errors.New("failed to generate report")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
