package document

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func renderPDF(t *testing.T, records int, wm *Watermark) []byte {
	t.Helper()
	l := DefaultLayout()
	in := makeInput(makeRecords(records))
	pages, err := NewPaginator(l, wm).Paginate(in)
	require.NoError(t, err)

	out, err := NewPDFRenderer(l, "SVCE").Render(Document{Input: in, Pages: pages, Watermark: wm})
	require.NoError(t, err)
	return out
}

func pdfPageCount(out []byte) int {
	return bytes.Count(out, []byte("/Type /Page\n"))
}

func TestPDFRenderer_PageCount(t *testing.T) {
	for _, n := range []int{0, 13, 14, 62} {
		out := renderPDF(t, n, nil)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		assert.Equal(t, expectedPages(n), pdfPageCount(out), "%d records", n)
	}
}

func TestPDFRenderer_WithWatermarkImage(t *testing.T) {
	wm := NewWatermark("", encodePNG(t, 32, 32))
	out := renderPDF(t, 20, wm)

	assert.Equal(t, 2, pdfPageCount(out))
	assert.Contains(t, string(out), "/Subtype /Image")
}

func TestPDFRenderer_BrokenImageFallsBack(t *testing.T) {
	wm := NewWatermark("", []byte("not a png"))
	out := renderPDF(t, 3, wm)

	assert.Equal(t, 1, pdfPageCount(out))
	assert.NotContains(t, string(out), "/Subtype /Image")
}

func TestPDFRenderer_Metadata(t *testing.T) {
	r := NewPDFRenderer(DefaultLayout(), "SVCE")
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, "pdf", r.Extension())
}

func TestXLSXRenderer_Render(t *testing.T) {
	l := DefaultLayout()
	in := makeInput(makeRecords(30))
	in.Records[0].TeamName = "The Extraordinarily Long Team"

	r := NewXLSXRenderer(l)
	out, err := r.Render(Document{Input: in})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Teams"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Attendance Report - Viz-A-Thon 2025", title)

	rows, err := f.GetRows("Teams")
	require.NoError(t, err)
	require.Len(t, rows, 31)
	assert.Equal(t, []string{"Team Name", "Leader", "Email", "Dept", "Year", "Status"}, rows[0])
	assert.Equal(t, "The Extraordinarily Long Team", rows[1][0], "spreadsheet cells are not truncated")
	assert.Equal(t, "Absent", rows[1][5])
	assert.Equal(t, "Present", rows[2][5])

	assert.Equal(t, "xlsx", r.Extension())
}

func TestXLSXRenderer_StripeCoversStatusColumn(t *testing.T) {
	in := makeInput(makeRecords(4))
	out, err := NewXLSXRenderer(DefaultLayout()).Render(Document{Input: in})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	fillPattern := func(ref string) int {
		idx, err := f.GetCellStyle("Teams", ref)
		require.NoError(t, err)
		style, err := f.GetStyle(idx)
		require.NoError(t, err)
		return style.Fill.Pattern
	}

	// Records 0 and 2 sit on rows 2 and 4 and are striped across every column.
	for _, row := range []int{2, 4} {
		assert.Equal(t, 1, fillPattern(cell(0, row)), "row %d team", row)
		assert.Equal(t, 1, fillPattern(cell(5, row)), "row %d status", row)
	}
	assert.Equal(t, 0, fillPattern(cell(5, 3)))

	// Records 0 (absent) and 1 (present) keep their status colors.
	absent, err := f.GetCellStyle("Teams", cell(5, 2))
	require.NoError(t, err)
	present, err := f.GetCellStyle("Teams", cell(5, 3))
	require.NoError(t, err)
	assert.NotEqual(t, absent, present)
}
