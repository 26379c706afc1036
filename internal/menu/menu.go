package menu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/okayo/okayo/internal/catalogue"
	"github.com/okayo/okayo/internal/checkout"
	"github.com/okayo/okayo/internal/document"
)

const choicePrompt = "Veuillez entrer le numéro correspondant à votre choix : "

// CatalogueService is what the admin menu edits.
type CatalogueService interface {
	Catalogue() *catalogue.Catalogue
	UpdateField(ctx context.Context, index int, fieldName, value string) (catalogue.Change, error)
	Persist(ctx context.Context) error
}

// Checkout opens client carts.
type Checkout interface {
	NewSession() *checkout.Session
}

// Options wires the terminal. Nil streams default to the process ones.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	// Echo repeats every answer, for input that is not a terminal.
	Echo bool
}

// Menu is the interactive French front end.
type Menu struct {
	catalogue CatalogueService
	checkout  Checkout
	logger    *slog.Logger
	p         *prompter
}

// New builds Menu.
func New(cat CatalogueService, co Checkout, logger *slog.Logger, opts Options) *Menu {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Menu{
		catalogue: cat,
		checkout:  co,
		logger:    logger,
		p:         newPrompter(opts.Stdin, opts.Stdout, opts.Echo),
	}
}

// Run shows the role menu until the user quits or input ends. Business
// errors are printed and never end the session.
func (m *Menu) Run(ctx context.Context) error {
	m.p.say("Bienvenue dans le programme de gestion d'Okayo !")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.p.say("")
		m.p.say("Vous êtes : ")
		m.p.say("1 - OKAYO")
		m.p.say("2 - Client")
		m.p.say("3 - Quitter")
		choice, err := m.p.ask(choicePrompt)
		if err != nil {
			return endOfInput(err)
		}
		switch choice {
		case "1":
			err = m.admin(ctx)
		case "2":
			err = m.client(ctx)
		case "3":
			m.p.say("Au revoir.")
			return nil
		default:
			m.p.say("Choix non valide, veuillez réessayer.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func (m *Menu) admin(ctx context.Context) error {
	for {
		m.p.say("")
		m.p.say("Options OKAYO :")
		m.p.say("1 - Afficher le catalogue")
		m.p.say("2 - Modifier une valeur dans le catalogue")
		m.p.say("3 - Quitter")
		choice, err := m.p.ask(choicePrompt)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			m.showCatalogue()
		case "2":
			if err := m.edit(ctx); err != nil {
				return err
			}
		case "3":
			m.p.say("Retour au menu principal.")
			return nil
		default:
			m.p.say("Choix non valide, veuillez réessayer.")
		}
	}
}

func (m *Menu) edit(ctx context.Context) error {
	m.showCatalogue()
	index, err := m.p.askInt("Entrez l'index du produit que vous souhaitez modifier : ", "Erreur : L'index doit être un nombre entier.")
	if err != nil {
		return err
	}
	column, err := m.p.ask("Entrez le nom de la colonne à modifier (Désignations, TVA, P.U HT, Quantités) : ")
	if err != nil {
		return err
	}
	value, err := m.p.ask("Entrez la nouvelle valeur : ")
	if err != nil {
		return err
	}
	change, err := m.catalogue.UpdateField(ctx, index, column, value)
	if err != nil {
		m.p.say("%s", Message(err))
		return nil
	}
	m.p.say("Valeur modifiée avec succès ! (%s : %s -> %s)", change.Field, change.Old, change.New)
	if err := m.catalogue.Persist(ctx); err != nil {
		m.logger.ErrorContext(ctx, "persist catalogue", slog.Any("error", err))
		m.p.say("%s", Message(err))
		return nil
	}
	m.p.say("Catalogue sauvegardé automatiquement en XLSX et PDF.")
	return nil
}

func (m *Menu) client(ctx context.Context) error {
	m.p.say("")
	m.p.say("Bienvenue, cher client !")
	m.p.say("Vous pouvez maintenant choisir des produits pour générer une facture.")
	session := m.checkout.NewSession()
	for {
		m.p.say("")
		m.p.say("Produits disponibles dans le catalogue :")
		m.showCatalogue()

		index, err := m.p.askInt("Entrez l'index du produit que vous voulez acheter (par exemple, 0, 1, 2) : ", "Erreur : L'index doit être un nombre entier.")
		if err != nil {
			session.Cancel(ctx)
			return err
		}
		product, err := session.Check(ctx, index)
		if err != nil {
			m.p.say("%s", Message(err))
			continue
		}
		qty, err := m.p.askInt("Entrez la quantité pour '"+product.Designation+"' : ", "Erreur : La quantité doit être un nombre entier.")
		if err != nil {
			session.Cancel(ctx)
			return err
		}
		if _, err := session.Add(ctx, index, qty); err != nil {
			m.p.say("%s", Message(err))
			continue
		}
		if p, err := m.catalogue.Catalogue().Product(index); err == nil {
			m.p.say("Quantité de '%s' mise à jour : %s restantes.", p.Designation, p.Stock.Marker())
		}

		more, err := m.p.ask("Voulez-vous ajouter un autre produit ? (oui/non) : ")
		if err != nil {
			session.Cancel(ctx)
			return err
		}
		if yes(more) {
			continue
		}
		confirm, err := m.p.ask("Voulez-vous confirmer vos achats et générer la facture ? (oui/non) : ")
		if err != nil {
			session.Cancel(ctx)
			return err
		}
		if !yes(confirm) {
			session.Cancel(ctx)
			m.p.say("Annulation des achats.")
			return nil
		}
		inv, err := session.Confirm(ctx)
		if err != nil {
			m.logger.ErrorContext(ctx, "confirm purchase", slog.Any("error", err))
			m.p.say("%s", Message(err))
			session.Cancel(ctx)
			return nil
		}
		m.p.say("Total HT : %s, Total TTC : %s", document.FormatNumber(inv.Totals.TotalHT), document.FormatNumber(inv.Totals.TotalTTC))
		m.p.say("La facture a été générée et le catalogue mis à jour.")
		return nil
	}
}

func (m *Menu) showCatalogue() {
	c := m.catalogue.Catalogue()
	if c == nil {
		m.p.say("%s", Message(catalogue.ErrNotLoaded))
		return
	}
	if err := c.WriteTable(m.p.out); err != nil {
		m.logger.Warn("write catalogue table", slog.Any("error", err))
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
