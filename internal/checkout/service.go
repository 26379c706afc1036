package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okayo/okayo/internal/catalogue"
	"github.com/okayo/okayo/internal/document"
	"github.com/okayo/okayo/internal/invoice"
)

// ErrEmptyCart indicates a confirmation without any line.
var ErrEmptyCart = errors.New("checkout: empty cart")

// CataloguePort is the part of the catalogue service a purchase needs.
type CataloguePort interface {
	CheckPurchasable(index int) (catalogue.Product, error)
	Decrement(ctx context.Context, index, amount int) (catalogue.Product, error)
	Persist(ctx context.Context) error
}

// SnapshotWriter persists both projections of an invoice.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, s document.Snapshot, paths document.Paths) error
}

// MetricsRecorder receives purchase outcomes.
type MetricsRecorder interface {
	ObserveInvoice(totalHT, totalTTC float64)
	ObserveRejection(reason string)
	ObserveWrite(doc string, started time.Time, err error)
}

// ServiceConfig groups invoice output settings.
type ServiceConfig struct {
	Company      string
	InvoicePaths document.Paths
}

// Service opens purchase sessions against one catalogue.
type Service struct {
	catalogue CataloguePort
	writer    SnapshotWriter
	metrics   MetricsRecorder
	logger    *slog.Logger
	cfg       ServiceConfig
}

// NewService builds Service. metrics may be nil.
func NewService(cat CataloguePort, writer SnapshotWriter, metrics MetricsRecorder, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Company == "" {
		cfg.Company = "Okayo"
	}
	return &Service{catalogue: cat, writer: writer, metrics: metrics, logger: logger, cfg: cfg}
}

// NewSession starts an empty cart.
func (s *Service) NewSession() *Session {
	return &Session{svc: s}
}

// Session is one client's cart. Stock is taken from the catalogue as soon
// as a line is added; Cancel does not give it back.
type Session struct {
	svc  *Service
	cart invoice.Cart
}

// Check reports whether index can be bought at all, before asking for a
// quantity.
func (s *Session) Check(ctx context.Context, index int) (catalogue.Product, error) {
	p, err := s.svc.catalogue.CheckPurchasable(index)
	if err != nil {
		s.svc.reject(ctx, index, err)
		return p, err
	}
	return p, nil
}

// Add takes qty units of index from the catalogue and appends the line.
func (s *Session) Add(ctx context.Context, index, qty int) (invoice.Line, error) {
	if _, err := s.Check(ctx, index); err != nil {
		return invoice.Line{}, err
	}
	if qty <= 0 {
		err := fmt.Errorf("%w: %d", catalogue.ErrInvalidQuantity, qty)
		s.svc.reject(ctx, index, err)
		return invoice.Line{}, err
	}
	p, err := s.svc.catalogue.Decrement(ctx, index, qty)
	if err != nil {
		s.svc.reject(ctx, index, err)
		return invoice.Line{}, err
	}
	line, err := invoice.LineFromProduct(p, qty)
	if err != nil {
		return invoice.Line{}, err
	}
	if err := s.cart.Add(line); err != nil {
		return invoice.Line{}, err
	}
	s.svc.logger.DebugContext(ctx, "line added",
		slog.Int("index", index),
		slog.Int("quantity", qty),
		slog.Int("remaining", p.Stock.Quantity()))
	return line, nil
}

// Lines returns the cart content.
func (s *Session) Lines() []invoice.Line { return s.cart.Lines() }

// Confirm builds the invoice, writes its snapshot and then re-writes the
// catalogue. The cart is kept when a write fails so it can be retried.
func (s *Session) Confirm(ctx context.Context) (invoice.Invoice, error) {
	if s.cart.Empty() {
		return invoice.Invoice{}, ErrEmptyCart
	}
	inv := s.cart.Build()
	svc := s.svc

	started := time.Now()
	err := svc.writer.WriteSnapshot(ctx, inv.Snapshot(svc.cfg.Company), svc.cfg.InvoicePaths)
	svc.observeWrite("invoice", started, err)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("write invoice: %w", err)
	}

	started = time.Now()
	err = svc.catalogue.Persist(ctx)
	svc.observeWrite("catalogue", started, err)
	if err != nil {
		return inv, err
	}

	if svc.metrics != nil {
		svc.metrics.ObserveInvoice(inv.Totals.TotalHT, inv.Totals.TotalTTC)
	}
	svc.logger.InfoContext(ctx, "invoice issued",
		slog.String("invoice_id", inv.ID.String()),
		slog.Int("lines", len(inv.Lines)),
		slog.Float64("total_ht", inv.Totals.TotalHT),
		slog.Float64("total_ttc", inv.Totals.TotalTTC),
		slog.Float64("total_vat", inv.Totals.VATAmount),
		slog.String("xlsx", svc.cfg.InvoicePaths.XLSX),
		slog.String("pdf", svc.cfg.InvoicePaths.PDF))
	s.cart.Reset()
	return inv, nil
}

// Cancel drops the cart.
func (s *Session) Cancel(ctx context.Context) {
	s.svc.logger.InfoContext(ctx, "cart cancelled", slog.Int("lines", s.cart.Len()))
	s.cart.Reset()
}

func (s *Service) reject(ctx context.Context, index int, err error) {
	reason := RejectionReason(err)
	if reason == "" {
		reason = "other"
	}
	if s.metrics != nil {
		s.metrics.ObserveRejection(reason)
	}
	s.logger.InfoContext(ctx, "purchase rejected", slog.Int("index", index), slog.String("reason", reason), slog.Any("error", err))
}

func (s *Service) observeWrite(doc string, started time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveWrite(doc, started, err)
	}
}

// RejectionReason classifies a catalogue error for metrics and exit codes.
// Errors that are not business rejections yield "".
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, catalogue.ErrInvalidIndex):
		return "invalid_index"
	case errors.Is(err, catalogue.ErrNotPurchasable):
		return "not_purchasable"
	case errors.Is(err, catalogue.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, catalogue.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, catalogue.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, catalogue.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	default:
		return ""
	}
}

// IsRejection reports whether err is a business rejection rather than a
// runtime failure.
func IsRejection(err error) bool {
	return RejectionReason(err) != ""
}
