package cli

import (
	"context"
	"io"
	"os"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// ShowCommand prints the catalogue table.
func (c *OkayoCLI) ShowCommand(ctx context.Context, opts ShowOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	cat, err := c.load(ctx)
	if err != nil {
		return fail(opts.Stderr, "show", err)
	}
	if err := cat.WriteTable(opts.Stdout); err != nil {
		return fail(opts.Stderr, "show", err)
	}
	return ExitOK
}
