package document

import (
	"fmt"
	"time"

	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

// Input is everything the report shows. Records must be the full roster in
// original order; filtering is a view concern.
type Input struct {
	GeneratedAt time.Time
	Summary     analytics.EventSummary
	Stats       analytics.Stats
	Records     []analytics.AttendanceRecord
}

// Title is the report heading.
func (in Input) Title() string {
	return "Attendance Report - " + in.Summary.DisplayName()
}

// Cursor is the layout position: the page being filled and the y coordinate
// of the next band. Every layout step takes a cursor and returns the next one.
type Cursor struct {
	Page int
	Y    float64
}

// Paginator lays a report out over fixed-size pages.
type Paginator struct {
	layout    Layout
	watermark *Watermark
}

// NewPaginator returns a paginator. A nil watermark stamps the default text
// watermark only.
func NewPaginator(layout Layout, watermark *Watermark) *Paginator {
	if watermark == nil {
		watermark = NewWatermark("", nil)
	}
	return &Paginator{
		layout:    layout,
		watermark: watermark,
	}
}

// Paginate lays out the title block once, then the table header and one row
// per record, breaking to a new page whenever the next row would cross the
// break threshold. Every page gets the watermark and table header; footers
// are stamped once the page count is known.
func (p *Paginator) Paginate(in Input) ([]Page, error) {
	if err := p.layout.Validate(); err != nil {
		return nil, err
	}

	pages, cur := p.startPage(nil)
	cur = p.emitReportHeader(&pages[cur.Page], cur, in)
	cur = p.emitTableHeader(&pages[cur.Page], cur)

	for i, rec := range in.Records {
		if p.needsBreak(cur) {
			pages, cur = p.startPage(pages)
			cur = p.emitTableHeader(&pages[cur.Page], cur)
		}
		cur = p.emitRow(&pages[cur.Page], cur, i, rec)
	}

	return p.finalize(pages), nil
}

// startPage appends a page carrying the watermark and puts the cursor at the
// top margin.
func (p *Paginator) startPage(pages []Page) ([]Page, Cursor) {
	page := Page{Number: len(pages) + 1}
	page.Regions = append(page.Regions, p.watermark.Regions(p.layout)...)
	pages = append(pages, page)
	return pages, Cursor{Page: len(pages) - 1, Y: p.layout.TopMargin}
}

// emitReportHeader draws the title, generation date and summary block. Only
// the first page has it.
func (p *Paginator) emitReportHeader(page *Page, cur Cursor, in Input) Cursor {
	l := p.layout
	center := l.PageWidth / 2

	page.Regions = append(page.Regions,
		textRegion(RegionTitle, center, l.TitleY, in.Title(), AlignCenter, 24, false, colorText),
		textRegion(RegionSubtitle, center, l.DateY, "Generated on: "+in.GeneratedAt.Format("1/2/2006"), AlignCenter, 14, false, colorMuted),
		textRegion(RegionSection, l.StatsLeftX, l.SummaryY, "Attendance Summary", AlignLeft, 18, true, colorText),
	)

	s := in.Summary
	left := []string{
		fmt.Sprintf("Total Teams: %d", s.TotalTeamsCount),
		fmt.Sprintf("Present Teams: %d", s.PresentTeamsCount),
		fmt.Sprintf("Absent Teams: %d", s.AbsentTeamsCount),
	}
	right := []string{
		fmt.Sprintf("Present Rate: %s%%", in.Stats.PresentPercentage.StringFixed(1)),
		fmt.Sprintf("Absent Rate: %s%%", in.Stats.AbsentPercentage.StringFixed(1)),
	}
	for i, text := range left {
		page.Regions = append(page.Regions, textRegion(RegionSummary, l.StatsLeftX, l.StatsY+float64(i)*l.StatsPitch, text, AlignLeft, 12, false, colorText))
	}
	for i, text := range right {
		page.Regions = append(page.Regions, textRegion(RegionSummary, l.StatsRightX, l.StatsY+float64(i)*l.StatsPitch, text, AlignLeft, 12, false, colorText))
	}

	page.Regions = append(page.Regions,
		textRegion(RegionSection, l.StatsLeftX, l.DetailsY, "Team Attendance Details", AlignLeft, 18, true, colorText),
	)

	return Cursor{Page: cur.Page, Y: l.TableHeaderY}
}

// emitTableHeader draws the column header band at the cursor. Used for the
// first page and after every page break.
func (p *Paginator) emitTableHeader(page *Page, cur Cursor) Cursor {
	l := p.layout
	fill := colorTableHeader

	cells := make([]Cell, 0, len(l.Columns))
	for _, col := range l.Columns {
		cells = append(cells, Cell{X: col.X, Text: col.Title, Color: colorWhite})
	}

	page.Regions = append(page.Regions, Region{
		Kind:     RegionTableHeader,
		X:        l.TableX,
		Y:        cur.Y,
		W:        l.TableWidth(),
		H:        l.HeaderHeight,
		FontSize: 10,
		Bold:     true,
		Opacity:  1,
		Fill:     &fill,
		Baseline: cur.Y + l.HeaderBase,
		Cells:    cells,
		Index:    -1,
	})

	return Cursor{Page: cur.Page, Y: cur.Y + l.HeaderHeight}
}

func (p *Paginator) needsBreak(cur Cursor) bool {
	return cur.Y+p.layout.RowHeight > p.layout.BreakAfterY
}

// emitRow draws one record. Striping follows the record's index in the full
// roster.
func (p *Paginator) emitRow(page *Page, cur Cursor, index int, rec analytics.AttendanceRecord) Cursor {
	l := p.layout

	fill := colorWhite
	if index%2 == 0 {
		fill = colorStripe
	}
	border := colorBorder

	cells := make([]Cell, 0, len(l.Columns))
	for _, col := range l.Columns {
		color := colorText
		if col.Field == FieldStatus {
			color = colorAbsent
			if rec.IsPresent {
				color = colorPresent
			}
		}
		cells = append(cells, Cell{
			X:     col.X,
			Text:  truncate(fieldValue(rec, col.Field), col.MaxChars),
			Color: color,
		})
	}

	page.Regions = append(page.Regions, Region{
		Kind:     RegionRow,
		X:        l.TableX,
		Y:        cur.Y,
		W:        l.TableWidth(),
		H:        l.RowHeight,
		FontSize: 9,
		Opacity:  1,
		Fill:     &fill,
		Border:   &border,
		Baseline: cur.Y + l.RowBase,
		Cells:    cells,
		Index:    index,
		Present:  rec.IsPresent,
	})

	return Cursor{Page: cur.Page, Y: cur.Y + l.RowHeight}
}

// finalize stamps "Page i of N" on every page.
func (p *Paginator) finalize(pages []Page) []Page {
	total := len(pages)
	for i := range pages {
		footer := textRegion(
			RegionFooter,
			p.layout.PageWidth/2,
			p.layout.PageHeight-p.layout.FooterOffset,
			fmt.Sprintf("Page %d of %d", i+1, total),
			AlignCenter, 10, false, colorMuted,
		)
		pages[i].Regions = append(pages[i].Regions, footer)
	}
	return pages
}

func fieldValue(rec analytics.AttendanceRecord, field Field) string {
	switch field {
	case FieldTeamName:
		return rec.TeamName
	case FieldLeaderName:
		return rec.LeaderName
	case FieldEmail:
		return rec.Email
	case FieldDepartment:
		return rec.Department
	case FieldYear:
		return rec.Year.String()
	case FieldStatus:
		return rec.Status()
	default:
		return ""
	}
}
