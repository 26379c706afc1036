package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/okayo/okayo/internal/catalogue"
	"github.com/okayo/okayo/internal/checkout"
)

// Exit codes shared by every command.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitRejected = 10
)

// CatalogueService is the catalogue surface the commands drive.
type CatalogueService interface {
	Load(ctx context.Context) (*catalogue.Catalogue, error)
	Catalogue() *catalogue.Catalogue
	UpdateField(ctx context.Context, index int, fieldName, value string) (catalogue.Change, error)
	Persist(ctx context.Context) error
}

// Checkout opens purchase sessions.
type Checkout interface {
	NewSession() *checkout.Session
}

// OkayoCLI implements the non-interactive commands.
type OkayoCLI struct {
	catalogue CatalogueService
	checkout  Checkout
}

// NewOkayoCLI constructs the helper. Both collaborators are required.
func NewOkayoCLI(cat CatalogueService, co Checkout) (*OkayoCLI, error) {
	if cat == nil || co == nil {
		return nil, errors.New("okayo cli: catalogue and checkout required")
	}
	return &OkayoCLI{catalogue: cat, checkout: co}, nil
}

func (c *OkayoCLI) load(ctx context.Context) (*catalogue.Catalogue, error) {
	if current := c.catalogue.Catalogue(); current != nil {
		return current, nil
	}
	return c.catalogue.Load(ctx)
}

// fail prints err under the command name and maps it to an exit code.
func fail(w io.Writer, command string, err error) int {
	_, _ = fmt.Fprintf(w, "%s: %v\n", command, err)
	if checkout.IsRejection(err) {
		return ExitRejected
	}
	return ExitFailure
}
