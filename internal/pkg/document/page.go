package document

// RegionKind identifies what a region draws.
type RegionKind string

const (
	RegionTitle          RegionKind = "title"
	RegionSubtitle       RegionKind = "subtitle"
	RegionSection        RegionKind = "section"
	RegionSummary        RegionKind = "summary"
	RegionTableHeader    RegionKind = "table_header"
	RegionRow            RegionKind = "row"
	RegionWatermarkImage RegionKind = "watermark_image"
	RegionWatermarkText  RegionKind = "watermark_text"
	RegionFooter         RegionKind = "footer"
)

type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
)

// Cell is one piece of text inside a band. Y of the text is the band's
// baseline.
type Cell struct {
	X     float64
	Text  string
	Color Color
}

// Region is one drawable element of a page. Text regions use X,Y as the
// anchor of their baseline (the centre when Align is AlignCenter); bands
// (table header, rows, watermark image) use X,Y,W,H as their box.
type Region struct {
	Kind      RegionKind
	X, Y      float64
	W, H      float64
	Text      string
	Align     Align
	FontSize  float64
	Bold      bool
	TextColor Color
	Opacity   float64

	Fill     *Color
	Border   *Color
	Baseline float64
	Cells    []Cell

	// Index is the record's position in the full roster, -1 for non-rows.
	Index   int
	Present bool
}

// Page is one laid-out page. Regions are in drawing order, so earlier
// regions sit beneath later ones.
type Page struct {
	Number  int
	Regions []Region
}

// Count returns the number of regions of the given kind.
func (p Page) Count(kind RegionKind) int {
	n := 0
	for _, r := range p.Regions {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Rows returns the row regions in drawing order.
func (p Page) Rows() []Region {
	var rows []Region
	for _, r := range p.Regions {
		if r.Kind == RegionRow {
			rows = append(rows, r)
		}
	}
	return rows
}

// Footer returns the footer text, or "" before finalization.
func (p Page) Footer() string {
	for _, r := range p.Regions {
		if r.Kind == RegionFooter {
			return r.Text
		}
	}
	return ""
}

func textRegion(kind RegionKind, x, y float64, text string, align Align, size float64, bold bool, color Color) Region {
	return Region{
		Kind:      kind,
		X:         x,
		Y:         y,
		Text:      text,
		Align:     align,
		FontSize:  size,
		Bold:      bold,
		TextColor: color,
		Opacity:   1,
		Index:     -1,
	}
}
