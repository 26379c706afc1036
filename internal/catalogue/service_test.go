package catalogue

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okayo/okayo/internal/document"
	"github.com/okayo/okayo/internal/shared"
)

type memoryRepo struct {
	stored  *Catalogue
	loadErr error
	saves   int
}

func (r *memoryRepo) Load(ctx context.Context) (*Catalogue, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return nil, ErrCatalogueNotFound
	}
	return New(r.stored.Products())
}

func (r *memoryRepo) Save(ctx context.Context, c *Catalogue) error {
	stored, err := New(c.Products())
	if err != nil {
		return err
	}
	r.stored = stored
	r.saves++
	return nil
}

type memoryPDF struct {
	tables map[string]document.Table
}

func (m *memoryPDF) WritePDF(ctx context.Context, path string, t document.Table) error {
	if m.tables == nil {
		m.tables = make(map[string]document.Table)
	}
	m.tables[path] = t
	return nil
}

type memoryAudit struct {
	logs []shared.AuditLog
}

func (m *memoryAudit) Record(ctx context.Context, log shared.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func TestServiceLoadSeedsWhenMissing(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil, nil, nil, ServiceConfig{})
	c, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Seed().Products(), c.Products())
	require.Same(t, c, svc.Catalogue())
}

func TestServiceLoadPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewService(&memoryRepo{loadErr: boom}, nil, nil, nil, ServiceConfig{})
	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, boom)
	require.Nil(t, svc.Catalogue())
}

func TestServiceRequiresLoad(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil, nil, nil, ServiceConfig{})
	ctx := context.Background()
	_, err := svc.UpdateField(ctx, 0, "TVA", "1")
	require.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Decrement(ctx, 0, 1)
	require.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.CheckPurchasable(0)
	require.ErrorIs(t, err, ErrNotLoaded)
	require.ErrorIs(t, svc.Persist(ctx), ErrNotLoaded)
}

func TestServiceMutationsAreAudited(t *testing.T) {
	audit := &memoryAudit{}
	svc := NewService(&memoryRepo{}, nil, audit, nil, ServiceConfig{Actor: "admin"})
	ctx := context.Background()
	_, err := svc.Load(ctx)
	require.NoError(t, err)

	change, err := svc.UpdateField(ctx, 1, "p.u ht", "210")
	require.NoError(t, err)
	require.Equal(t, FieldUnitPrice, change.Field)

	p, err := svc.Decrement(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 40, p.Stock.Quantity())

	_, err = svc.Decrement(ctx, 2, 1)
	require.ErrorIs(t, err, ErrNotPurchasable)

	_, err = svc.UpdateField(ctx, 0, "Couleur", "rouge")
	require.ErrorIs(t, err, ErrUnknownField)

	require.Len(t, audit.logs, 2)
	require.Equal(t, "catalogue.update", audit.logs[0].Action)
	require.Equal(t, "1", audit.logs[0].EntityID)
	require.Equal(t, "admin", audit.logs[0].Actor)
	require.Equal(t, "catalogue.decrement", audit.logs[1].Action)
	require.Equal(t, 50, audit.logs[1].Meta["before"])
	require.Equal(t, 40, audit.logs[1].Meta["after"])
}

func TestServicePersist(t *testing.T) {
	repo := &memoryRepo{}
	pdf := &memoryPDF{}
	svc := NewService(repo, pdf, nil, nil, ServiceConfig{PDFPath: "CATALOGUE/catalogue.pdf"})
	ctx := context.Background()
	_, err := svc.Load(ctx)
	require.NoError(t, err)
	_, err = svc.Decrement(ctx, 1, 5)
	require.NoError(t, err)

	require.NoError(t, svc.Persist(ctx))
	require.Equal(t, 1, repo.saves)
	stored, err := repo.stored.Product(1)
	require.NoError(t, err)
	require.Equal(t, 25, stored.Stock.Quantity())

	table, ok := pdf.tables["CATALOGUE/catalogue.pdf"]
	require.True(t, ok)
	require.Equal(t, "Catalogue Offre Okayo", table.Title)
	require.Equal(t, "25", table.Rows[1][3])
}

func TestSpreadsheetRepositoryRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "CATALOGUE")
	path := filepath.Join(dir, "catalogue.xlsx")
	repo := NewSpreadsheetRepository(path, document.NewWriter(document.NewFPDF(), nil))
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrCatalogueNotFound)

	saved, err := New([]Product{
		{Index: 0, Designation: "Produit A", VATRate: 20, UnitPrice: 100, Stock: InStock(50)},
		{Index: 1, Designation: "Produit B", VATRate: 5.5, UnitPrice: 199.99, Stock: OutOfStock()},
		{Index: 2, Designation: "Produit C", VATRate: 10, UnitPrice: 150, Stock: Unavailable()},
		{Index: 7, Designation: "Élément spécial", VATRate: 0, UnitPrice: 0.5, Stock: InStock(2147483647)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, saved))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, saved.Products(), loaded.Products())
}

func TestSpreadsheetRepositoryRejectsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.xlsx")
	table := document.Table{
		Headers: []string{"", "Désignations", "TVA", "Quantités"},
		Rows:    [][]any{{0, "Produit A", 20.0, 50}},
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, document.EncodeXLSX(f, table))
	require.NoError(t, f.Close())

	_, err = NewSpreadsheetRepository(path, nil).Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "P.U HT")
}

func TestServiceWithSpreadsheetRepository(t *testing.T) {
	dir := t.TempDir()
	writer := document.NewWriter(document.NewFPDF(), nil)
	paths := document.Paths{XLSX: filepath.Join(dir, "catalogue.xlsx"), PDF: filepath.Join(dir, "catalogue.pdf")}
	ctx := context.Background()

	svc := NewService(NewSpreadsheetRepository(paths.XLSX, writer), writer, nil, nil, ServiceConfig{PDFPath: paths.PDF})
	_, err := svc.Load(ctx)
	require.NoError(t, err)
	_, err = svc.Decrement(ctx, 0, 10)
	require.NoError(t, err)
	require.NoError(t, svc.Persist(ctx))
	require.FileExists(t, paths.PDF)

	reloaded := NewService(NewSpreadsheetRepository(paths.XLSX, writer), writer, nil, nil, ServiceConfig{PDFPath: paths.PDF})
	c, err := reloaded.Load(ctx)
	require.NoError(t, err)
	p, err := c.Product(0)
	require.NoError(t, err)
	require.Equal(t, 40, p.Stock.Quantity())
}
