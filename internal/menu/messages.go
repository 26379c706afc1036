package menu

import (
	"errors"
	"fmt"

	"github.com/okayo/okayo/internal/catalogue"
	"github.com/okayo/okayo/internal/checkout"
)

// Message translates an error for the person at the keyboard.
func Message(err error) string {
	switch {
	case errors.Is(err, catalogue.ErrInvalidIndex):
		return "Erreur : Index invalide."
	case errors.Is(err, catalogue.ErrNotPurchasable):
		return "Ce produit n'est pas disponible à l'achat."
	case errors.Is(err, catalogue.ErrOutOfStock):
		return "Ce produit est en rupture de stock."
	case errors.Is(err, catalogue.ErrInsufficientStock):
		return "Erreur : Quantité demandée supérieure à la quantité en stock."
	case errors.Is(err, catalogue.ErrInvalidQuantity):
		return "Erreur : La quantité doit être un nombre entier positif."
	case errors.Is(err, catalogue.ErrUnknownField):
		return "Erreur : Cette colonne n'existe pas (Désignations, TVA, P.U HT, Quantités)."
	case errors.Is(err, catalogue.ErrInvalidNumber):
		return "Erreur : La valeur doit être un nombre."
	case errors.Is(err, catalogue.ErrInvalidValue):
		return fmt.Sprintf("Erreur : Valeur refusée (%v).", err)
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Aucun produit sélectionné."
	default:
		return fmt.Sprintf("Erreur : %v", err)
	}
}
