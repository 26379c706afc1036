package catalogue

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okayo/okayo/internal/document"
)

// Catalogue is an ordered set of products keyed by a stable index.
type Catalogue struct {
	products []Product
	byIndex  map[int]int
}

// New builds a catalogue keeping the given order. Every product is validated
// and indices must be unique.
func New(products []Product) (*Catalogue, error) {
	c := &Catalogue{
		products: make([]Product, 0, len(products)),
		byIndex:  make(map[int]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.byIndex[p.Index]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, p.Index)
		}
		if err := validateProduct(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", p.Index, err)
		}
		c.byIndex[p.Index] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Seed returns the default three-row catalogue.
func Seed() *Catalogue {
	c, err := New(seedProducts)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of products.
func (c *Catalogue) Len() int { return len(c.products) }

// Products returns a copy of the rows in order.
func (c *Catalogue) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product returns the row at index.
func (c *Catalogue) Product(index int) (Product, error) {
	pos, ok := c.byIndex[index]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return c.products[pos], nil
}

// Display maps every row for humans: unavailable and out-of-stock quantities
// are replaced by their markers, everything else passes through.
func (c *Catalogue) Display() []DisplayRow {
	rows := make([]DisplayRow, len(c.products))
	for i, p := range c.products {
		rows[i] = DisplayRow{
			Index:       p.Index,
			Designation: p.Designation,
			VATRate:     p.VATRate,
			UnitPrice:   p.UnitPrice,
			Quantity:    p.Stock.Marker(),
		}
	}
	return rows
}

// WriteTable prints the display rows as an aligned table.
func (c *Catalogue) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{""}
	for _, f := range Fields {
		header = append(header, string(f))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return err
	}
	for _, row := range c.Display() {
		_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			row.Index, row.Designation, document.FormatNumber(row.VATRate), document.FormatNumber(row.UnitPrice), row.Quantity)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// CheckPurchasable reports whether at least one unit of index can be sold.
func (c *Catalogue) CheckPurchasable(index int) (Product, error) {
	p, err := c.Product(index)
	if err != nil {
		return Product{}, err
	}
	switch p.Stock.State() {
	case StateUnavailable:
		return p, fmt.Errorf("%w: %s", ErrNotPurchasable, p.Designation)
	case StateOutOfStock:
		return p, fmt.Errorf("%w: %s", ErrOutOfStock, p.Designation)
	}
	return p, nil
}

// Update overwrites one field of the row at index. The raw value is parsed
// according to the field; nothing is applied when parsing or validation
// fails.
func (c *Catalogue) Update(index int, field Field, value string) (Change, error) {
	pos, ok := c.byIndex[index]
	if !ok {
		return Change{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	current := c.products[pos]
	updated := current
	value = strings.TrimSpace(value)

	switch field {
	case FieldDesignation:
		updated.Designation = value
	case FieldVAT:
		f, err := parseNumber(value)
		if err != nil {
			return Change{}, err
		}
		updated.VATRate = f
	case FieldUnitPrice:
		f, err := parseNumber(value)
		if err != nil {
			return Change{}, err
		}
		updated.UnitPrice = f
	case FieldQuantity:
		f, err := parseNumber(value)
		if err != nil {
			return Change{}, err
		}
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return Change{}, fmt.Errorf("%w: %s is not a whole number", ErrInvalidQuantity, value)
		}
		stock, err := StockFromQuantity(int(f))
		if err != nil {
			return Change{}, err
		}
		updated.Stock = stock
	default:
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}

	if err := validateProduct(updated); err != nil {
		return Change{}, err
	}
	c.products[pos] = updated
	return Change{
		Index: index,
		Field: field,
		Old:   fieldValue(current, field),
		New:   fieldValue(updated, field),
	}, nil
}

// Decrement sells amount units of the row at index and returns the updated
// row. Stock never goes negative and unavailable rows are never sold.
func (c *Catalogue) Decrement(index, amount int) (Product, error) {
	pos, ok := c.byIndex[index]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	p := c.products[pos]
	stock, err := p.Stock.Take(amount)
	if err != nil {
		if errors.Is(err, ErrNotPurchasable) {
			return p, fmt.Errorf("%w: %s", ErrNotPurchasable, p.Designation)
		}
		return p, err
	}
	p.Stock = stock
	c.products[pos] = p
	return p, nil
}

// SheetTable projects the catalogue for the spreadsheet: index first and
// raw quantities so the file reads back unchanged.
func (c *Catalogue) SheetTable() document.Table {
	headers := []string{""}
	for _, f := range Fields {
		headers = append(headers, string(f))
	}
	rows := make([][]any, len(c.products))
	for i, p := range c.products {
		rows[i] = []any{p.Index, p.Designation, p.VATRate, p.UnitPrice, p.Stock.Quantity()}
	}
	return document.Table{Headers: headers, Rows: rows}
}

// PrintTable projects the catalogue for the PDF with display markers.
func (c *Catalogue) PrintTable(title string) document.Table {
	headers := make([]string, len(Fields))
	for i, f := range Fields {
		headers[i] = string(f)
	}
	rows := make([][]any, len(c.products))
	for i, row := range c.Display() {
		rows[i] = []any{row.Designation, row.VATRate, row.UnitPrice, row.Quantity}
	}
	return document.Table{Title: title, Headers: headers, Rows: rows, ColumnWidth: 40}
}

func parseNumber(value string) (float64, error) {
	normalized := strings.ReplaceAll(value, ",", ".")
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return f, nil
}

func fieldValue(p Product, field Field) string {
	switch field {
	case FieldDesignation:
		return p.Designation
	case FieldVAT:
		return document.FormatNumber(p.VATRate)
	case FieldUnitPrice:
		return document.FormatNumber(p.UnitPrice)
	case FieldQuantity:
		return strconv.Itoa(p.Stock.Quantity())
	}
	return ""
}
