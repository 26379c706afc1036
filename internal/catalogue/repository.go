package catalogue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"github.com/okayo/okayo/internal/document"
)

// Repository loads and saves whole catalogues.
type Repository interface {
	Load(ctx context.Context) (*Catalogue, error)
	Save(ctx context.Context, c *Catalogue) error
}

// SpreadsheetWriter writes a table as a spreadsheet file.
type SpreadsheetWriter interface {
	WriteXLSX(ctx context.Context, path string, t document.Table) error
}

// SpreadsheetRepository persists the catalogue as an .xlsx file whose first
// column is the row index followed by one column per Field.
type SpreadsheetRepository struct {
	path   string
	writer SpreadsheetWriter
}

// NewSpreadsheetRepository constructs SpreadsheetRepository.
func NewSpreadsheetRepository(path string, writer SpreadsheetWriter) *SpreadsheetRepository {
	return &SpreadsheetRepository{path: path, writer: writer}
}

// Path returns the spreadsheet location.
func (r *SpreadsheetRepository) Path() string { return r.path }

// Load reads the spreadsheet. A missing file reports ErrCatalogueNotFound.
func (r *SpreadsheetRepository) Load(ctx context.Context) (*Catalogue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	header, rows, err := document.ReadXLSXFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogueNotFound, r.path)
		}
		return nil, err
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", r.path, err)
	}
	products := make([]Product, 0, len(rows))
	for i, row := range rows {
		p, err := decodeRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("catalogue %s row %d: %w", r.path, i+2, err)
		}
		products = append(products, p)
	}
	return New(products)
}

// Save overwrites the spreadsheet with the full catalogue.
func (r *SpreadsheetRepository) Save(ctx context.Context, c *Catalogue) error {
	if r.writer == nil {
		return errors.New("catalogue: spreadsheet writer not configured")
	}
	if c == nil {
		return ErrNotLoaded
	}
	return r.writer.WriteXLSX(ctx, r.path, c.SheetTable())
}

// mapColumns locates each Field by header name. Column 0 holds the index.
func mapColumns(header []string) (map[Field]int, error) {
	columns := make(map[Field]int, len(Fields))
	for i := 1; i < len(header); i++ {
		f, err := ParseField(header[i])
		if err != nil {
			continue
		}
		if _, seen := columns[f]; !seen {
			columns[f] = i
		}
	}
	for _, f := range Fields {
		if _, ok := columns[f]; !ok {
			return nil, fmt.Errorf("missing column %q", string(f))
		}
	}
	return columns, nil
}

func decodeRow(row []string, columns map[Field]int) (Product, error) {
	index, err := parseInt(row[0])
	if err != nil {
		return Product{}, fmt.Errorf("index: %w", err)
	}
	vat, err := parseNumber(strings.TrimSpace(row[columns[FieldVAT]]))
	if err != nil {
		return Product{}, err
	}
	price, err := parseNumber(strings.TrimSpace(row[columns[FieldUnitPrice]]))
	if err != nil {
		return Product{}, err
	}
	qty, err := parseInt(row[columns[FieldQuantity]])
	if err != nil {
		return Product{}, fmt.Errorf("quantity: %w", err)
	}
	stock, err := StockFromQuantity(qty)
	if err != nil {
		return Product{}, err
	}
	return Product{
		Index:       index,
		Designation: strings.TrimSpace(row[columns[FieldDesignation]]),
		VATRate:     vat,
		UnitPrice:   price,
		Stock:       stock,
	}, nil
}

// parseInt accepts whole numbers written as floats ("50.0"), which is how
// some spreadsheet tools persist integer columns.
func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return int(f), nil
}
