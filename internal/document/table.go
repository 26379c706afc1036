package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a titled grid of cells shared by the spreadsheet and PDF writers.
type Table struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     [][]any
	// ColumnWidth is the PDF cell width in millimetres. Zero spreads the
	// columns over the printable width.
	ColumnWidth float64
}

// Snapshot pairs the spreadsheet and printable projections of one entity.
type Snapshot struct {
	Sheet Table
	Print Table
}

// Paths locates the two files written for a snapshot.
type Paths struct {
	XLSX string
	PDF  string
}

// StringRows formats every cell with FormatCell.
func (t Table) StringRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = FormatCell(cell)
		}
		rows[i] = cells
	}
	return rows
}

// FormatCell renders a cell value for display. Floats are rounded to cents
// and trailing zeros are dropped.
func FormatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return FormatNumber(value)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

// FormatNumber prints f with at most two decimals.
func FormatNumber(f float64) string {
	rounded := math.Round(f*100) / 100
	if rounded == 0 {
		rounded = 0 // drops the sign of -0
	}
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
