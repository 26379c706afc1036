package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// SetOptions configures the set command.
type SetOptions struct {
	Index  int
	Field  string
	Value  string
	Stdout io.Writer
	Stderr io.Writer
}

// SetCommand edits one field and re-writes the catalogue snapshot.
func (c *OkayoCLI) SetCommand(ctx context.Context, opts SetOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if strings.TrimSpace(opts.Field) == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "set: --field is required")
		return ExitFailure
	}
	if _, err := c.load(ctx); err != nil {
		return fail(opts.Stderr, "set", err)
	}
	change, err := c.catalogue.UpdateField(ctx, opts.Index, opts.Field, opts.Value)
	if err != nil {
		return fail(opts.Stderr, "set", err)
	}
	if err := c.catalogue.Persist(ctx); err != nil {
		return fail(opts.Stderr, "set", err)
	}
	_, _ = fmt.Fprintf(opts.Stdout, "product %d: %s %q -> %q\n", change.Index, change.Field, change.Old, change.New)
	return ExitOK
}
