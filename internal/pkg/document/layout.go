package document

import (
	"errors"
	"fmt"
)

var ErrInvalidLayout = errors.New("invalid page layout")

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B int
}

var (
	colorText        = Color{40, 40, 40}
	colorMuted       = Color{120, 120, 120}
	colorWhite       = Color{255, 255, 255}
	colorTableHeader = Color{66, 133, 244}
	colorStripe      = Color{245, 245, 245}
	colorBorder      = Color{220, 220, 220}
	colorPresent     = Color{0, 150, 0}
	colorAbsent      = Color{220, 0, 0}
	colorWatermark   = Color{30, 30, 30}
)

// Field selects the record value shown in a column.
type Field string

const (
	FieldTeamName   Field = "team_name"
	FieldLeaderName Field = "leader_name"
	FieldEmail      Field = "email"
	FieldDepartment Field = "department"
	FieldYear       Field = "year"
	FieldStatus     Field = "status"
)

// Column describes one table column. MaxChars of 0 disables truncation.
type Column struct {
	Title    string
	Field    Field
	X        float64
	MaxChars int
}

// Layout fixes every coordinate of the report, in millimetres on a portrait
// page. The report has one shape, so nothing here is derived from content.
type Layout struct {
	PageWidth  float64
	PageHeight float64

	// TopMargin is where the cursor restarts on continuation pages.
	TopMargin float64

	TitleY        float64
	DateY         float64
	SummaryY      float64
	StatsY        float64
	StatsPitch    float64
	StatsLeftX    float64
	StatsRightX   float64
	DetailsY      float64
	TableHeaderY  float64
	TableX        float64
	HeaderHeight  float64
	HeaderBase    float64
	RowHeight     float64
	RowBase       float64
	RowBorder     float64
	BreakAfterY   float64
	FooterOffset  float64
	WatermarkSize float64
	// WatermarkTextOffset is measured up from the bottom edge.
	WatermarkTextOffset float64

	Columns []Column
}

// DefaultLayout is the A4 attendance report.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:           210,
		PageHeight:          297,
		TopMargin:           20,
		TitleY:              30,
		DateY:               42,
		SummaryY:            65,
		StatsY:              80,
		StatsPitch:          12,
		StatsLeftX:          20,
		StatsRightX:         120,
		DetailsY:            125,
		TableHeaderY:        135,
		TableX:              20,
		HeaderHeight:        12,
		HeaderBase:          8,
		RowHeight:           10,
		RowBase:             6.5,
		RowBorder:           0.1,
		BreakAfterY:         280,
		FooterOffset:        20,
		WatermarkSize:       80,
		WatermarkTextOffset: 10,
		Columns: []Column{
			{Title: "Team Name", Field: FieldTeamName, X: 22, MaxChars: 18},
			{Title: "Leader", Field: FieldLeaderName, X: 65, MaxChars: 14},
			{Title: "Email", Field: FieldEmail, X: 100, MaxChars: 22},
			{Title: "Dept", Field: FieldDepartment, X: 145, MaxChars: 7},
			{Title: "Year", Field: FieldYear, X: 163},
			{Title: "Status", Field: FieldStatus, X: 175},
		},
	}
}

// TableWidth is the width of header and row bands.
func (l Layout) TableWidth() float64 {
	return l.PageWidth - 2*l.TableX
}

// Validate rejects layouts in which a continuation page could not hold its
// table header plus one row, which would never terminate.
func (l Layout) Validate() error {
	if l.PageWidth <= 0 || l.PageHeight <= 0 {
		return fmt.Errorf("%w: page size %.1fx%.1f", ErrInvalidLayout, l.PageWidth, l.PageHeight)
	}
	if l.RowHeight <= 0 || l.HeaderHeight <= 0 {
		return fmt.Errorf("%w: row and header heights must be positive", ErrInvalidLayout)
	}
	if l.BreakAfterY > l.PageHeight {
		return fmt.Errorf("%w: break threshold %.1f below page bottom", ErrInvalidLayout, l.BreakAfterY)
	}
	if l.TopMargin+l.HeaderHeight+l.RowHeight > l.BreakAfterY {
		return fmt.Errorf("%w: continuation page cannot hold a row", ErrInvalidLayout)
	}
	if l.TableHeaderY+l.HeaderHeight > l.BreakAfterY {
		return fmt.Errorf("%w: first page table header below break threshold", ErrInvalidLayout)
	}
	if len(l.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidLayout)
	}
	return nil
}

// truncate cuts s to at most n runes. n <= 0 leaves s untouched.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
