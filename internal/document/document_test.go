package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Catalogue Offre Okayo",
		Headers: []string{"", "Désignations", "TVA", "P.U HT", "Quantités"},
		Rows: [][]any{
			{0, "Produit A", 20.0, 100.0, 50},
			{1, "Produit B", 5.5, 200.0, 30},
			{2, "Produit C", 10.0, 150.0, -1},
		},
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "Produit A", "Produit A"},
		{"int", 50, "50"},
		{"negative int", -1, "-1"},
		{"whole float", 1200.0, "1200"},
		{"decimal float", 5.5, "5.5"},
		{"float noise", 1200.0000000000002, "1200"},
		{"cents", 10.456, "10.46"},
		{"negative zero", -0.001, "0"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.in))
		})
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, EncodeXLSX(buf, sampleTable()))

	header, rows, err := DecodeXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []string{"", "Désignations", "TVA", "P.U HT", "Quantités"}, header)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"0", "Produit A", "20", "100", "50"}, rows[0])
	require.Equal(t, []string{"1", "Produit B", "5.5", "200", "30"}, rows[1])
	require.Equal(t, []string{"2", "Produit C", "10", "150", "-1"}, rows[2])
}

func TestReadXLSXFileMissing(t *testing.T) {
	_, _, err := ReadXLSXFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFPDFRender(t *testing.T) {
	buf := &bytes.Buffer{}
	table := sampleTable()
	table.Subtitle = "n° 1"
	require.NoError(t, NewFPDF().Render(context.Background(), table, buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFPDFRenderManyRowsSpansPages(t *testing.T) {
	table := Table{Title: "Long", Headers: []string{"A", "B"}}
	for i := 0; i < 120; i++ {
		table.Rows = append(table.Rows, []any{i, "ligne"})
	}
	pdf, err := NewFPDF().layout(table)
	require.NoError(t, err)
	require.Greater(t, pdf.PageCount(), 1)
}

func TestFPDFRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewFPDF().Render(ctx, sampleTable(), io.Discard)
	require.ErrorIs(t, err, context.Canceled)
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, Table, io.Writer) error {
	return errors.New("boom")
}

func TestWriterWriteSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "FACTURE")
	paths := Paths{XLSX: filepath.Join(dir, "facture.xlsx"), PDF: filepath.Join(dir, "facture.pdf")}
	w := NewWriter(NewFPDF(), nil)

	snapshot := Snapshot{Sheet: sampleTable(), Print: sampleTable()}
	require.NoError(t, w.WriteSnapshot(context.Background(), snapshot, paths))
	// a second write overwrites in place
	require.NoError(t, w.WriteSnapshot(context.Background(), snapshot, paths))

	_, rows, err := ReadXLSXFile(paths.XLSX)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	data, err := os.ReadFile(paths.PDF)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestWriterWritePDFKeepsPreviousFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.pdf")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	w := NewWriter(failingRenderer{}, nil)
	err := w.WritePDF(context.Background(), path, sampleTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "previous", string(data))
}

func TestNilWriter(t *testing.T) {
	var w *Writer
	require.Error(t, w.WriteXLSX(context.Background(), "x.xlsx", Table{}))
	require.Error(t, w.WritePDF(context.Background(), "x.pdf", Table{}))
}
