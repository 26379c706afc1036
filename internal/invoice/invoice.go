package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okayo/okayo/internal/document"
)

// TotalLabel is the designation of the synthetic totals row.
const TotalLabel = "TOTAL"

// Columns lists the invoice headers in order.
var Columns = []string{"Désignation", "TVA", "P.U HT", "Quantité", "Total HT", "Total TTC"}

// Totals aggregates every line of an invoice. VATRate and UnitPrice are
// plain column sums; VATAmount is TotalHT weighted by the mean VAT rate.
type Totals struct {
	VATRate   float64
	UnitPrice float64
	Quantity  int
	TotalHT   float64
	TotalTTC  float64
	VATAmount float64
}

// Invoice is a finalised purchase.
type Invoice struct {
	ID       uuid.UUID
	IssuedAt time.Time
	Lines    []Line
	Totals   Totals
}

var (
	newID = uuid.New
	now   = time.Now
)

// Build computes per-line and aggregate totals. An empty list yields an
// invoice whose totals are all zero.
func Build(lines []Line) Invoice {
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return Invoice{
		ID:       newID(),
		IssuedAt: now(),
		Lines:    copied,
		Totals:   computeTotals(copied),
	}
}

func computeTotals(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.VATRate += l.VATRate
		t.UnitPrice += l.UnitPrice
		t.Quantity += l.Quantity
		t.TotalHT += l.TotalHT()
		t.TotalTTC += l.TotalTTC()
	}
	if len(lines) > 0 {
		t.VATAmount = t.TotalHT * (t.VATRate / float64(len(lines))) / 100
	}
	return t
}

// MeanVATRate is the unweighted mean of the line VAT rates, 0 when empty.
func (inv Invoice) MeanVATRate() float64 {
	if len(inv.Lines) == 0 {
		return 0
	}
	return inv.Totals.VATRate / float64(len(inv.Lines))
}

// SheetTable projects the invoice for the spreadsheet, totals row last.
func (inv Invoice) SheetTable() document.Table {
	rows := make([][]any, 0, len(inv.Lines)+1)
	for _, l := range inv.Lines {
		rows = append(rows, []any{l.Designation, l.VATRate, l.UnitPrice, l.Quantity, l.TotalHT(), l.TotalTTC()})
	}
	t := inv.Totals
	rows = append(rows, []any{TotalLabel, t.VATRate, t.UnitPrice, t.Quantity, t.TotalHT, t.TotalTTC})
	return document.Table{Headers: append([]string(nil), Columns...), Rows: rows}
}

// PrintTable projects the invoice for the PDF. VAT cells carry a percent
// sign, the totals row included.
func (inv Invoice) PrintTable(company string) document.Table {
	sheet := inv.SheetTable()
	for _, row := range sheet.Rows {
		row[1] = document.FormatCell(row[1]) + "%"
	}
	title := "Facture"
	if company != "" {
		title += " " + company
	}
	sheet.Title = title
	sheet.Subtitle = fmt.Sprintf("N° %s - %s", inv.ID, inv.IssuedAt.Format("02/01/2006 15:04"))
	sheet.ColumnWidth = 30
	return sheet
}

// Snapshot pairs both projections.
func (inv Invoice) Snapshot(company string) document.Snapshot {
	return document.Snapshot{Sheet: inv.SheetTable(), Print: inv.PrintTable(company)}
}
