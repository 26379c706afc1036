package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	ucli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/okayo/okayo/cmd/okayo/cli"
	"github.com/okayo/okayo/internal/app"
	"github.com/okayo/okayo/internal/catalogue"
	"github.com/okayo/okayo/internal/checkout"
	"github.com/okayo/okayo/internal/document"
	"github.com/okayo/okayo/internal/menu"
	"github.com/okayo/okayo/internal/observability"
	"github.com/okayo/okayo/internal/shared"
	"github.com/okayo/okayo/report"
)

type services struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	catalogue *catalogue.Service
	checkout  *checkout.Service
	commands  *cli.OkayoCLI
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return cli.ExitFailure
	}
	logger := app.NewLogger(cfg, nil)

	rt, err := wire(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire application", slog.Any("error", err))
		return cli.ExitFailure
	}
	defer func() {
		if err := rt.metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("flush metrics", slog.Any("error", err))
		}
	}()

	application := newApp(rt)
	if err := application.RunContext(ctx, args); err != nil {
		var exit ucli.ExitCoder
		if errors.As(err, &exit) {
			return exit.ExitCode()
		}
		logger.Error("okayo", slog.Any("error", err))
		return cli.ExitFailure
	}
	return cli.ExitOK
}

func wire(ctx context.Context, cfg *app.Config, logger *slog.Logger) (*services, error) {
	renderer := pdfRenderer(ctx, cfg, logger)
	writer := document.NewWriter(renderer, logger)
	metrics := observability.NewMetrics()
	audit := shared.NewAuditLogger(logger)

	cataloguePaths := cfg.CataloguePaths()
	repo := catalogue.NewSpreadsheetRepository(cataloguePaths.XLSX, writer)
	catalogueService := catalogue.NewService(repo, writer, audit, logger, catalogue.ServiceConfig{
		PDFPath: cataloguePaths.PDF,
		Title:   "Catalogue Offre " + cfg.CompanyName,
		Actor:   cfg.CompanyName,
	})
	checkoutService := checkout.NewService(catalogueService, writer, metrics, logger, checkout.ServiceConfig{
		Company:      cfg.CompanyName,
		InvoicePaths: cfg.InvoicePaths(),
	})
	commands, err := cli.NewOkayoCLI(catalogueService, checkoutService)
	if err != nil {
		return nil, err
	}
	return &services{
		logger:    logger,
		metrics:   metrics,
		catalogue: catalogueService,
		checkout:  checkoutService,
		commands:  commands,
	}, nil
}

// pdfRenderer prefers Gotenberg when configured and reachable, and falls
// back to the local renderer otherwise.
func pdfRenderer(ctx context.Context, cfg *app.Config, logger *slog.Logger) document.PDFRenderer {
	if !cfg.UseGotenberg() {
		return document.NewFPDF()
	}
	client := report.NewClient(cfg.GotenbergURL, cfg.RenderTimeout)
	if err := client.Ping(ctx); err != nil {
		logger.Warn("gotenberg unavailable, using local pdf renderer", slog.String("url", client.BaseURL()), slog.Any("error", err))
		return document.NewFPDF()
	}
	renderer, err := report.NewRenderer(client, logger)
	if err != nil {
		logger.Warn("gotenberg renderer", slog.Any("error", err))
		return document.NewFPDF()
	}
	return renderer
}

func newApp(rt *services) *ucli.App {
	return &ucli.App{
		Name:  "okayo",
		Usage: "gestion du catalogue et des factures Okayo",
		// Exit codes are returned by run so deferred flushes still happen.
		ExitErrHandler: func(*ucli.Context, error) {},
		Action:         menuAction(rt),
		Commands: []*ucli.Command{
			{
				Name:   "menu",
				Usage:  "interactive menu (default)",
				Action: menuAction(rt),
			},
			{
				Name:  "show",
				Usage: "print the catalogue",
				Action: func(c *ucli.Context) error {
					return exitCode(rt.commands.ShowCommand(c.Context, cli.ShowOptions{
						Stdout: c.App.Writer,
						Stderr: c.App.ErrWriter,
					}))
				},
			},
			{
				Name:  "set",
				Usage: "edit one catalogue field and re-write the catalogue",
				Flags: []ucli.Flag{
					&ucli.IntFlag{Name: "index", Required: true, Usage: "product index"},
					&ucli.StringFlag{Name: "field", Required: true, Usage: "Désignations, TVA, P.U HT or Quantités"},
					&ucli.StringFlag{Name: "value", Required: true, Usage: "new value"},
				},
				Action: func(c *ucli.Context) error {
					return exitCode(rt.commands.SetCommand(c.Context, cli.SetOptions{
						Index:  c.Int("index"),
						Field:  c.String("field"),
						Value:  c.String("value"),
						Stdout: c.App.Writer,
						Stderr: c.App.ErrWriter,
					}))
				},
			},
			{
				Name:  "purchase",
				Usage: "buy products and issue an invoice",
				Flags: []ucli.Flag{
					&ucli.StringSliceFlag{Name: "item", Required: true, Usage: "INDEX:QTY, repeatable"},
					&ucli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation prompt"},
				},
				Action: func(c *ucli.Context) error {
					return exitCode(rt.commands.PurchaseCommand(c.Context, cli.PurchaseOptions{
						Items:  c.StringSlice("item"),
						Yes:    c.Bool("yes"),
						Stdout: c.App.Writer,
						Stderr: c.App.ErrWriter,
						Stdin:  c.App.Reader,
					}))
				},
			},
			{
				Name:  "export",
				Usage: "re-write the catalogue spreadsheet and PDF",
				Action: func(c *ucli.Context) error {
					return exitCode(rt.commands.ExportCommand(c.Context, cli.ExportOptions{
						Stdout: c.App.Writer,
						Stderr: c.App.ErrWriter,
					}))
				},
			},
		},
	}
}

func menuAction(rt *services) ucli.ActionFunc {
	return func(c *ucli.Context) error {
		if _, err := rt.catalogue.Load(c.Context); err != nil {
			rt.logger.Error("load catalogue", slog.Any("error", err))
			return ucli.Exit("", cli.ExitFailure)
		}
		m := menu.New(rt.catalogue, rt.checkout, rt.logger, menu.Options{
			Stdin:  c.App.Reader,
			Stdout: c.App.Writer,
			Echo:   !term.IsTerminal(int(os.Stdin.Fd())),
		})
		if err := m.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
			rt.logger.Error("menu", slog.Any("error", err))
			return ucli.Exit("", cli.ExitFailure)
		}
		return nil
	}
}

func exitCode(code int) error {
	if code == cli.ExitOK {
		return nil
	}
	return ucli.Exit("", code)
}
