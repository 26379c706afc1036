package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okayo/okayo/internal/document"
	"github.com/okayo/okayo/internal/invoice"
)

// PurchaseItem is one INDEX:QTY request.
type PurchaseItem struct {
	Index    int
	Quantity int
}

// PurchaseOptions configures the purchase command.
type PurchaseOptions struct {
	Items   []string
	Yes     bool
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	Confirm func(io.Reader, io.Writer) (bool, error)
}

// ParsePurchaseItem decodes "INDEX:QTY".
func ParsePurchaseItem(raw string) (PurchaseItem, error) {
	idx, qty, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return PurchaseItem{}, fmt.Errorf("invalid item %q (expected INDEX:QTY)", raw)
	}
	index, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return PurchaseItem{}, fmt.Errorf("invalid item %q: index must be an integer", raw)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return PurchaseItem{}, fmt.Errorf("invalid item %q: quantity must be an integer", raw)
	}
	return PurchaseItem{Index: index, Quantity: quantity}, nil
}

// PurchaseCommand buys every item, then asks for confirmation unless Yes is
// set. A rejected item cancels the whole purchase with exit code 10.
func (c *OkayoCLI) PurchaseCommand(ctx context.Context, opts PurchaseOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if len(opts.Items) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, "purchase: at least one --item INDEX:QTY is required")
		return ExitFailure
	}
	items := make([]PurchaseItem, 0, len(opts.Items))
	for _, raw := range opts.Items {
		item, err := ParsePurchaseItem(raw)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "purchase: %v\n", err)
			return ExitFailure
		}
		items = append(items, item)
	}
	if _, err := c.load(ctx); err != nil {
		return fail(opts.Stderr, "purchase", err)
	}

	session := c.checkout.NewSession()
	for _, item := range items {
		if _, err := session.Add(ctx, item.Index, item.Quantity); err != nil {
			session.Cancel(ctx)
			return fail(opts.Stderr, "purchase", err)
		}
	}
	writeCart(opts.Stdout, session.Lines())

	if !opts.Yes {
		confirm := opts.Confirm
		if confirm == nil {
			confirm = defaultPurchaseConfirm
		}
		ok, err := confirm(opts.Stdin, opts.Stdout)
		if err != nil {
			session.Cancel(ctx)
			_, _ = fmt.Fprintf(opts.Stderr, "purchase: confirmation failed: %v\n", err)
			return ExitFailure
		}
		if !ok {
			session.Cancel(ctx)
			_, _ = fmt.Fprintln(opts.Stderr, "purchase: cancelled by user")
			return ExitOK
		}
	}

	inv, err := session.Confirm(ctx)
	if err != nil {
		return fail(opts.Stderr, "purchase", err)
	}
	_, _ = fmt.Fprintf(opts.Stdout, "invoice %s issued: total HT %s, total TTC %s\n",
		inv.ID, document.FormatNumber(inv.Totals.TotalHT), document.FormatNumber(inv.Totals.TotalTTC))
	return ExitOK
}

func writeCart(w io.Writer, lines []invoice.Line) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Désignation\tQuantité\tTotal HT\tTotal TTC")
	for _, l := range lines {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Designation, l.Quantity,
			document.FormatNumber(l.TotalHT()), document.FormatNumber(l.TotalTTC()))
	}
	_ = tw.Flush()
}

func defaultPurchaseConfirm(r io.Reader, w io.Writer) (bool, error) {
	_, _ = fmt.Fprint(w, "Confirmer l'achat et générer la facture ? (oui/non) : ")
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "oui"), nil
}
