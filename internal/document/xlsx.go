package document

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet every spreadsheet is written to.
const SheetName = "Sheet1"

// EncodeXLSX writes the table headers and rows to w as an .xlsx workbook.
// Numeric cells stay numeric so the file can be read back without loss.
func EncodeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if len(t.Headers) > 0 {
		header := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("xlsx style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
			return fmt.Errorf("xlsx style: %w", err)
		}
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := append([]any(nil), row...)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i, err)
		}
	}
	return f.Write(w)
}

// DecodeXLSX reads the first worksheet of r. The first non-empty row is the
// header; every data row is padded to the header width.
func DecodeXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readRows(f)
}

// ReadXLSXFile reads the spreadsheet at path. A missing file reports an
// error matching fs.ErrNotExist.
func ReadXLSXFile(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("xlsx %s: %w", path, fs.ErrNotExist)
		}
		return nil, nil, err
	}
	defer func() { _ = file.Close() }()
	return DecodeXLSX(file)
}

func readRows(f *excelize.File) ([]string, [][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("xlsx: workbook has no sheet")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx rows: %w", err)
	}
	var header []string
	var data [][]string
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}
	if header == nil {
		return nil, nil, errors.New("xlsx: missing header row")
	}
	return header, data, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
