package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExportOptions configures the export command.
type ExportOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// ExportCommand re-writes the catalogue spreadsheet and PDF.
func (c *OkayoCLI) ExportCommand(ctx context.Context, opts ExportOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	cat, err := c.load(ctx)
	if err != nil {
		return fail(opts.Stderr, "export", err)
	}
	if err := c.catalogue.Persist(ctx); err != nil {
		return fail(opts.Stderr, "export", err)
	}
	_, _ = fmt.Fprintf(opts.Stdout, "catalogue exported (%d products)\n", cat.Len())
	return ExitOK
}
