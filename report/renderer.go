package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/okayo/okayo/internal/document"
	"github.com/okayo/okayo/web"
)

const tableTemplate = "table_pdf.html"

// Renderer turns tables into PDFs through Gotenberg using the embedded
// table template.
type Renderer struct {
	client    *Client
	templates *template.Template
	logger    *slog.Logger
}

type tableView struct {
	Title       string
	Subtitle    string
	Headers     []string
	Rows        [][]string
	ColumnWidth float64
}

// NewRenderer parses the embedded template. A nil client is rejected.
func NewRenderer(client *Client, logger *slog.Logger) (*Renderer, error) {
	if client == nil {
		return nil, fmt.Errorf("report renderer: gotenberg client required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	tpl, err := template.New(tableTemplate).ParseFS(web.Templates, "templates/reports/"+tableTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{client: client, templates: tpl, logger: logger}, nil
}

// Render implements document.PDFRenderer.
func (r *Renderer) Render(ctx context.Context, t document.Table, w io.Writer) error {
	if r == nil || r.templates == nil {
		return fmt.Errorf("report renderer not initialised")
	}
	buf := &bytes.Buffer{}
	if err := r.HTML(t, buf); err != nil {
		return err
	}
	pdf, err := r.client.RenderHTML(ctx, buf.String())
	if err != nil {
		r.logger.ErrorContext(ctx, "gotenberg render", slog.String("title", t.Title), slog.Any("error", err))
		return err
	}
	_, err = w.Write(pdf)
	return err
}

// HTML executes the table template into w.
func (r *Renderer) HTML(t document.Table, w io.Writer) error {
	vm := tableView{
		Title:       t.Title,
		Subtitle:    t.Subtitle,
		Headers:     t.Headers,
		Rows:        t.StringRows(),
		ColumnWidth: t.ColumnWidth,
	}
	if err := r.templates.ExecuteTemplate(w, tableTemplate, vm); err != nil {
		return fmt.Errorf("render %s: %w", tableTemplate, err)
	}
	return nil
}
