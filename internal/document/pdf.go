package document

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer turns a table into a PDF document.
type PDFRenderer interface {
	Render(ctx context.Context, t Table, w io.Writer) error
}

const (
	pageMargin      = 10.0
	pageBreakMargin = 15.0
	rowHeight       = 10.0
	printableWidth  = 210.0 - 2*pageMargin
)

// FPDF renders tables locally with gofpdf: a centred title, a bordered
// header row, then one bordered row per table row. Pages break
// automatically so long tables span several pages.
type FPDF struct {
	Font string
}

// NewFPDF returns a renderer using the Arial core font.
func NewFPDF() *FPDF {
	return &FPDF{Font: "Arial"}
}

// Render implements PDFRenderer.
func (r *FPDF) Render(ctx context.Context, t Table, w io.Writer) error {
	if r == nil {
		return fmt.Errorf("pdf renderer not initialised")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf, err := r.layout(t)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func (r *FPDF) layout(t Table) (*gofpdf.Fpdf, error) {
	font := r.Font
	if font == "" {
		font = "Arial"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(0, rowHeight, tr(t.Title), "", 1, "C", false, 0, "")
	if t.Subtitle != "" {
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(0, 6, tr(t.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(rowHeight)

	width := columnWidth(t)
	pdf.SetFont(font, "B", 12)
	for _, header := range t.Headers {
		pdf.CellFormat(width, rowHeight, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(font, "", 12)
	for _, row := range t.StringRows() {
		for _, cell := range row {
			pdf.CellFormat(width, rowHeight, tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf layout: %w", err)
	}
	return pdf, nil
}

func columnWidth(t Table) float64 {
	if t.ColumnWidth > 0 {
		return t.ColumnWidth
	}
	if len(t.Headers) == 0 {
		return printableWidth
	}
	return printableWidth / float64(len(t.Headers))
}
