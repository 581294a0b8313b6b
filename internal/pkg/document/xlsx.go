package document

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	rosterSheet  = "Teams"
)

// XLSXRenderer writes the summary and full roster as a workbook. It uses the
// document input rather than the pages: a spreadsheet has no page breaks, and
// cells are not truncated.
type XLSXRenderer struct {
	layout Layout
}

func NewXLSXRenderer(layout Layout) *XLSXRenderer {
	return &XLSXRenderer{layout: layout}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Extension() string { return "xlsx" }

func (r *XLSXRenderer) Render(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(rosterSheet); err != nil {
		return nil, fmt.Errorf("create roster sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4285F4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	stripeFill := excelize.Fill{Type: "pattern", Color: []string{"#F5F5F5"}, Pattern: 1}
	stripeStyle, err := f.NewStyle(&excelize.Style{Fill: stripeFill})
	if err != nil {
		return nil, fmt.Errorf("create stripe style: %w", err)
	}

	// statusStyles[present][striped]
	var statusStyles [2][2]int
	for p, color := range []string{"#DC0000", "#009600"} {
		for striped := range 2 {
			style := &excelize.Style{Font: &excelize.Font{Bold: true, Color: color}}
			if striped == 1 {
				style.Fill = stripeFill
			}
			if statusStyles[p][striped], err = f.NewStyle(style); err != nil {
				return nil, fmt.Errorf("create status style: %w", err)
			}
		}
	}

	if err := r.writeSummary(f, doc.Input); err != nil {
		return nil, err
	}

	// Roster header
	for i, col := range r.layout.Columns {
		if err := f.SetCellValue(rosterSheet, cell(i, 1), col.Title); err != nil {
			return nil, fmt.Errorf("write roster header: %w", err)
		}
	}
	last := len(r.layout.Columns) - 1
	if err := f.SetCellStyle(rosterSheet, cell(0, 1), cell(last, 1), headerStyle); err != nil {
		return nil, fmt.Errorf("style roster header: %w", err)
	}

	for i, rec := range doc.Input.Records {
		row := i + 2
		striped := 0
		if i%2 == 0 {
			striped = 1
			if err := f.SetCellStyle(rosterSheet, cell(0, row), cell(last, row), stripeStyle); err != nil {
				return nil, fmt.Errorf("stripe roster row %d: %w", i, err)
			}
		}
		for c, col := range r.layout.Columns {
			if err := f.SetCellValue(rosterSheet, cell(c, row), fieldValue(rec, col.Field)); err != nil {
				return nil, fmt.Errorf("write roster row %d: %w", i, err)
			}
			if col.Field != FieldStatus {
				continue
			}
			present := 0
			if rec.IsPresent {
				present = 1
			}
			if err := f.SetCellStyle(rosterSheet, cell(c, row), cell(c, row), statusStyles[present][striped]); err != nil {
				return nil, fmt.Errorf("style roster row %d: %w", i, err)
			}
		}
	}

	widths := []float64{28, 22, 32, 12, 8, 12}
	for i := range r.layout.Columns {
		if i >= len(widths) {
			break
		}
		name := colName(i)
		if err := f.SetColWidth(rosterSheet, name, name, widths[i]); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *XLSXRenderer) writeSummary(f *excelize.File, in Input) error {
	rows := [][]interface{}{
		{in.Title()},
		{"Generated on", in.GeneratedAt.Format("2006-01-02")},
		{},
		{"Total Teams", in.Summary.TotalTeamsCount},
		{"Present Teams", in.Summary.PresentTeamsCount},
		{"Absent Teams", in.Summary.AbsentTeamsCount},
		{"Participation Rate", fmt.Sprintf("%d%%", in.Stats.ParticipationRate)},
		{"Present Rate", in.Stats.PresentPercentage.StringFixed(1) + "%"},
		{"Absent Rate", in.Stats.AbsentPercentage.StringFixed(1) + "%"},
	}
	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		row := values
		if err := f.SetSheetRow(summarySheet, cell(0, i+1), &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

// cell converts a zero-based column and one-based row to "A1" notation.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
