package invoice

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okayo/okayo/internal/catalogue"
	"github.com/okayo/okayo/internal/document"
)

func fixedClock(t *testing.T) (uuid.UUID, time.Time) {
	t.Helper()
	id := uuid.MustParse("6f1c1f0e-4c1b-4a53-9d3f-1b2c3d4e5f60")
	at := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	prevID, prevNow := newID, now
	newID = func() uuid.UUID { return id }
	now = func() time.Time { return at }
	t.Cleanup(func() { newID, now = prevID, prevNow })
	return id, at
}

func TestLineTotals(t *testing.T) {
	l := Line{Designation: "Produit A", VATRate: 20, UnitPrice: 100, Quantity: 10}
	assert.InDelta(t, 1000, l.TotalHT(), 1e-9)
	assert.InDelta(t, 1200, l.TotalTTC(), 1e-9)

	free := Line{Designation: "Gratuit", VATRate: 0, UnitPrice: 0, Quantity: 3}
	assert.Zero(t, free.TotalHT())
	assert.Zero(t, free.TotalTTC())
}

func TestLineFromProduct(t *testing.T) {
	c := catalogue.Seed()
	p, err := c.Decrement(0, 10)
	require.NoError(t, err)

	l, err := LineFromProduct(p, 10)
	require.NoError(t, err)
	require.Equal(t, Line{Designation: "Produit A", VATRate: 20, UnitPrice: 100, Quantity: 10}, l)
	require.InDelta(t, 1000, l.TotalHT(), 1e-9)
	require.InDelta(t, 1200, l.TotalTTC(), 1e-9)

	_, err = LineFromProduct(p, 0)
	require.ErrorIs(t, err, catalogue.ErrInvalidQuantity)

	_, err = LineFromProduct(catalogue.Product{VATRate: 5, UnitPrice: 1}, 1)
	require.ErrorIs(t, err, ErrInvalidLine)
}

func TestBuildTotals(t *testing.T) {
	id, at := fixedClock(t)
	lines := []Line{
		{Designation: "Produit A", VATRate: 20, UnitPrice: 100, Quantity: 2},
		{Designation: "Produit B", VATRate: 5, UnitPrice: 200, Quantity: 1},
	}
	inv := Build(lines)
	require.Equal(t, id, inv.ID)
	require.Equal(t, at, inv.IssuedAt)
	require.Len(t, inv.Lines, 2)

	tot := inv.Totals
	assert.InDelta(t, 25, tot.VATRate, 1e-9)
	assert.InDelta(t, 300, tot.UnitPrice, 1e-9)
	assert.Equal(t, 3, tot.Quantity)
	assert.InDelta(t, 400, tot.TotalHT, 1e-9)
	assert.InDelta(t, 240+210, tot.TotalTTC, 1e-9)
	// 400 * 12.5 / 100
	assert.InDelta(t, 50, tot.VATAmount, 1e-9)
	assert.InDelta(t, 12.5, inv.MeanVATRate(), 1e-9)

	lines[0].Quantity = 99
	require.Equal(t, 2, inv.Lines[0].Quantity)
}

func TestBuildEmpty(t *testing.T) {
	fixedClock(t)
	inv := Build(nil)
	require.Empty(t, inv.Lines)
	require.Equal(t, Totals{}, inv.Totals)
	require.Zero(t, inv.MeanVATRate())

	sheet := inv.SheetTable()
	require.Len(t, sheet.Rows, 1)
	require.Equal(t, []any{TotalLabel, 0.0, 0.0, 0, 0.0, 0.0}, sheet.Rows[0])
}

func TestTables(t *testing.T) {
	id, _ := fixedClock(t)
	inv := Build([]Line{{Designation: "Produit A", VATRate: 20, UnitPrice: 100, Quantity: 10}})

	sheet := inv.SheetTable()
	require.Equal(t, Columns, sheet.Headers)
	require.Empty(t, sheet.Title)
	require.Equal(t, []any{"Produit A", 20.0, 100.0, 10, 1000.0, 1200.0}, sheet.Rows[0])
	require.Equal(t, TotalLabel, sheet.Rows[1][0])

	printable := inv.PrintTable("Okayo")
	require.Equal(t, "Facture Okayo", printable.Title)
	require.Contains(t, printable.Subtitle, id.String())
	require.Contains(t, printable.Subtitle, "09/03/2024 14:30")
	require.Equal(t, 30.0, printable.ColumnWidth)
	require.Equal(t, "20%", printable.Rows[0][1])
	require.Equal(t, "20%", printable.Rows[1][1])

	// The printable projection must not leak into the spreadsheet one.
	require.Equal(t, 20.0, inv.SheetTable().Rows[0][1])
}

func TestCart(t *testing.T) {
	fixedClock(t)
	var cart Cart
	require.True(t, cart.Empty())

	require.NoError(t, cart.Add(Line{Designation: "Produit A", VATRate: 20, UnitPrice: 100, Quantity: 1}))
	require.NoError(t, cart.Add(Line{Designation: "Produit B", VATRate: 5, UnitPrice: 200, Quantity: 4}))
	require.ErrorIs(t, cart.Add(Line{Designation: "Produit C", Quantity: 0}), ErrInvalidLine)
	require.Equal(t, 2, cart.Len())
	require.Equal(t, "Produit B", cart.Lines()[1].Designation)

	inv := cart.Build()
	require.Equal(t, 5, inv.Totals.Quantity)

	cart.Reset()
	require.True(t, cart.Empty())
}

func TestInvoiceSpreadsheetRoundTrip(t *testing.T) {
	fixedClock(t)
	dir := filepath.Join(t.TempDir(), "FACTURE")
	paths := document.Paths{XLSX: filepath.Join(dir, "facture.xlsx"), PDF: filepath.Join(dir, "facture.pdf")}
	inv := Build([]Line{
		{Designation: "Produit A", VATRate: 20, UnitPrice: 100, Quantity: 10},
		{Designation: "Produit B", VATRate: 5, UnitPrice: 200, Quantity: 2},
	})

	w := document.NewWriter(document.NewFPDF(), nil)
	require.NoError(t, w.WriteSnapshot(context.Background(), inv.Snapshot("Okayo"), paths))
	require.NoError(t, w.WriteSnapshot(context.Background(), inv.Snapshot("Okayo"), paths))
	require.FileExists(t, paths.PDF)

	header, rows, err := document.ReadXLSXFile(paths.XLSX)
	require.NoError(t, err)
	require.Equal(t, Columns, header)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Produit A", "20", "100", "10", "1000", "1200"}, rows[0])
	require.Equal(t, []string{"TOTAL", "25", "300", "12", "1400"}, rows[2][:5])
	ttc, err := strconv.ParseFloat(rows[2][5], 64)
	require.NoError(t, err)
	require.InDelta(t, 1620, ttc, 1e-6)
}
