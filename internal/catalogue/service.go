package catalogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/okayo/okayo/internal/document"
	"github.com/okayo/okayo/internal/shared"
)

// PDFWriter writes the printable snapshot.
type PDFWriter interface {
	WritePDF(ctx context.Context, path string, t document.Table) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	PDFPath string
	Title   string
	Actor   string
}

// Service owns the in-memory catalogue of a session and coordinates
// persistence.
type Service struct {
	repo    Repository
	pdf     PDFWriter
	audit   AuditPort
	logger  *slog.Logger
	cfg     ServiceConfig
	current *Catalogue
}

// NewService builds Service.
func NewService(repo Repository, pdf PDFWriter, audit AuditPort, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Title == "" {
		cfg.Title = "Catalogue Offre Okayo"
	}
	return &Service{repo: repo, pdf: pdf, audit: audit, logger: logger, cfg: cfg}
}

// Load reads the persisted catalogue or, when none exists, seeds the
// default one. Other read errors propagate.
func (s *Service) Load(ctx context.Context) (*Catalogue, error) {
	c, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, ErrCatalogueNotFound):
		s.logger.InfoContext(ctx, "no persisted catalogue, seeding defaults", slog.Any("error", err))
		c = Seed()
	case err != nil:
		return nil, err
	default:
		s.logger.DebugContext(ctx, "catalogue loaded", slog.Int("products", c.Len()))
	}
	s.current = c
	return c, nil
}

// Catalogue returns the loaded catalogue, nil before Load.
func (s *Service) Catalogue() *Catalogue {
	return s.current
}

// CheckPurchasable reports whether index can be sold.
func (s *Service) CheckPurchasable(index int) (Product, error) {
	if s.current == nil {
		return Product{}, ErrNotLoaded
	}
	return s.current.CheckPurchasable(index)
}

// UpdateField overwrites one field. fieldName is resolved with ParseField.
func (s *Service) UpdateField(ctx context.Context, index int, fieldName, value string) (Change, error) {
	if s.current == nil {
		return Change{}, ErrNotLoaded
	}
	field, err := ParseField(fieldName)
	if err != nil {
		return Change{}, err
	}
	change, err := s.current.Update(index, field, value)
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, "catalogue.update", index, map[string]any{
		"field": string(change.Field),
		"old":   change.Old,
		"new":   change.New,
	})
	return change, nil
}

// Decrement sells amount units of index.
func (s *Service) Decrement(ctx context.Context, index, amount int) (Product, error) {
	if s.current == nil {
		return Product{}, ErrNotLoaded
	}
	before, _ := s.current.Product(index)
	p, err := s.current.Decrement(index, amount)
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, "catalogue.decrement", index, map[string]any{
		"amount": amount,
		"before": before.Stock.Quantity(),
		"after":  p.Stock.Quantity(),
	})
	return p, nil
}

// Persist writes the spreadsheet and the PDF snapshot of the catalogue.
func (s *Service) Persist(ctx context.Context) error {
	if s.current == nil {
		return ErrNotLoaded
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.repo.Save(gctx, s.current)
	})
	if s.pdf != nil && s.cfg.PDFPath != "" {
		g.Go(func() error {
			return s.pdf.WritePDF(gctx, s.cfg.PDFPath, s.current.PrintTable(s.cfg.Title))
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("persist catalogue: %w", err)
	}
	s.logger.InfoContext(ctx, "catalogue persisted", slog.Int("products", s.current.Len()), slog.String("pdf", s.cfg.PDFPath))
	return nil
}

func (s *Service) record(ctx context.Context, action string, index int, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditLog{
		Actor:    s.cfg.Actor,
		Action:   action,
		Entity:   "product",
		EntityID: strconv.Itoa(index),
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record", slog.String("action", action), slog.Any("error", err))
	}
}
