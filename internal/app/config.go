package app

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/okayo/okayo/internal/document"
)

const (
	catalogueBase = "catalogue"
	invoiceBase   = "facture"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	CatalogueDir string `envconfig:"CATALOGUE_DIR" default:"CATALOGUE"`
	InvoiceDir   string `envconfig:"INVOICE_DIR" default:"FACTURE"`
	CompanyName  string `envconfig:"COMPANY_NAME" default:"Okayo"`

	GotenbergURL  string        `envconfig:"GOTENBERG_URL"`
	RenderTimeout time.Duration `envconfig:"RENDER_TIMEOUT" default:"30s"`

	MetricsFile string `envconfig:"METRICS_FILE"`
}

// LoadConfig reads configuration from the environment. Values found in a
// .env file in the working directory are applied first and never override
// variables that are already set.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.CatalogueDir) == "" {
		return nil, errors.New("catalogue directory must be provided")
	}
	if strings.TrimSpace(cfg.InvoiceDir) == "" {
		return nil, errors.New("invoice directory must be provided")
	}
	if cfg.RenderTimeout <= 0 {
		return nil, errors.New("render timeout must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// UseGotenberg reports whether PDFs are rendered by a remote Gotenberg service.
func (c *Config) UseGotenberg() bool {
	return c != nil && strings.TrimSpace(c.GotenbergURL) != ""
}

// CataloguePaths returns where the catalogue snapshots are written.
func (c *Config) CataloguePaths() document.Paths {
	return document.Paths{
		XLSX: filepath.Join(c.CatalogueDir, catalogueBase+".xlsx"),
		PDF:  filepath.Join(c.CatalogueDir, catalogueBase+".pdf"),
	}
}

// InvoicePaths returns where the invoice documents are written.
func (c *Config) InvoicePaths() document.Paths {
	return document.Paths{
		XLSX: filepath.Join(c.InvoiceDir, invoiceBase+".xlsx"),
		PDF:  filepath.Join(c.InvoiceDir, invoiceBase+".pdf"),
	}
}
