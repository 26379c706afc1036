package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Writer persists tables to disk. Every write replaces the whole file and
// creates the destination directory when needed.
type Writer struct {
	pdf    PDFRenderer
	logger *slog.Logger
}

// NewWriter builds a Writer rendering PDFs with pdf.
func NewWriter(pdf PDFRenderer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{pdf: pdf, logger: logger}
}

// WriteXLSX writes t as a spreadsheet at path.
func (w *Writer) WriteXLSX(ctx context.Context, path string, t Table) error {
	if w == nil {
		return fmt.Errorf("document writer not initialised")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if err := EncodeXLSX(buf, t); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	w.logger.DebugContext(ctx, "spreadsheet written", slog.String("path", path), slog.Int("rows", len(t.Rows)))
	return nil
}

// WritePDF renders t and writes it at path. The file is only touched once
// rendering succeeded.
func (w *Writer) WritePDF(ctx context.Context, path string, t Table) error {
	if w == nil || w.pdf == nil {
		return fmt.Errorf("document writer not initialised")
	}
	buf := &bytes.Buffer{}
	if err := w.pdf.Render(ctx, t, buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	w.logger.DebugContext(ctx, "pdf written", slog.String("path", path), slog.Int("bytes", buf.Len()))
	return nil
}

// WriteSnapshot writes the spreadsheet and the PDF of s concurrently.
func (w *Writer) WriteSnapshot(ctx context.Context, s Snapshot, paths Paths) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.WriteXLSX(ctx, paths.XLSX, s.Sheet)
	})
	g.Go(func() error {
		return w.WritePDF(ctx, paths.PDF, s.Print)
	})
	return g.Wait()
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
