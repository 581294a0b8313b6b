package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily         = "Helvetica"
	watermarkImageName = "watermark"
)

// PDFRenderer draws laid-out pages with fpdf. It does no layout of its own:
// every coordinate comes from the regions.
type PDFRenderer struct {
	layout Layout
	author string
}

func NewPDFRenderer(layout Layout, author string) *PDFRenderer {
	return &PDFRenderer{layout: layout, author: author}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

// Render creates the PDF from the document pages.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: r.layout.PageWidth, Ht: r.layout.PageHeight},
	})
	pdf.SetMargins(r.layout.TableX, r.layout.TopMargin, r.layout.TableX)
	// Page breaks are decided by the paginator.
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Input.Title(), true)
	pdf.SetAuthor(r.author, true)
	pdf.SetCreator("attendance-report", true)
	pdf.SetCreationDate(doc.Input.GeneratedAt)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Watermark != nil && doc.Watermark.HasImage() {
		pdf.RegisterImageOptionsReader(watermarkImageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(doc.Watermark.Image()))
		if pdf.Err() {
			// A bad image must not sink the export; draw pages without it.
			pdf.ClearError()
			doc.Pages = withoutImages(doc.Pages)
		}
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, region := range page.Regions {
			r.drawRegion(pdf, tr, region)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("PDF layout error: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawRegion(pdf *fpdf.Fpdf, tr func(string) string, region Region) {
	if region.Opacity > 0 && region.Opacity < 1 {
		pdf.SetAlpha(region.Opacity, "Normal")
		defer pdf.SetAlpha(1, "Normal")
	}

	switch region.Kind {
	case RegionWatermarkImage:
		pdf.ImageOptions(watermarkImageName, region.X, region.Y, region.W, region.H, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	case RegionTableHeader, RegionRow:
		if region.Fill != nil {
			pdf.SetFillColor(region.Fill.R, region.Fill.G, region.Fill.B)
			pdf.Rect(region.X, region.Y, region.W, region.H, "F")
		}
		if region.Border != nil {
			pdf.SetDrawColor(region.Border.R, region.Border.G, region.Border.B)
			pdf.SetLineWidth(r.layout.RowBorder)
			pdf.Rect(region.X, region.Y, region.W, region.H, "S")
		}
		pdf.SetFont(fontFamily, fontStyle(region.Bold), region.FontSize)
		for _, cell := range region.Cells {
			pdf.SetTextColor(cell.Color.R, cell.Color.G, cell.Color.B)
			pdf.Text(cell.X, region.Baseline, tr(cell.Text))
		}

	default:
		pdf.SetFont(fontFamily, fontStyle(region.Bold), region.FontSize)
		pdf.SetTextColor(region.TextColor.R, region.TextColor.G, region.TextColor.B)
		text := tr(region.Text)
		x := region.X
		if region.Align == AlignCenter {
			x -= pdf.GetStringWidth(text) / 2
		}
		pdf.Text(x, region.Y, text)
	}
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

func withoutImages(pages []Page) []Page {
	out := make([]Page, len(pages))
	for i, page := range pages {
		regions := make([]Region, 0, len(page.Regions))
		for _, region := range page.Regions {
			if region.Kind != RegionWatermarkImage {
				regions = append(regions, region)
			}
		}
		out[i] = Page{Number: page.Number, Regions: regions}
	}
	return out
}
