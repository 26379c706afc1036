package catalogue

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field names an editable catalogue column. Values are the persisted headers.
type Field string

const (
	FieldDesignation Field = "Désignations"
	FieldVAT         Field = "TVA"
	FieldUnitPrice   Field = "P.U HT"
	FieldQuantity    Field = "Quantités"
)

// Fields lists the columns in persisted order.
var Fields = []Field{FieldDesignation, FieldVAT, FieldUnitPrice, FieldQuantity}

var fieldAliases = map[string]Field{
	"designations": FieldDesignation,
	"designation":  FieldDesignation,
	"name":         FieldDesignation,
	"tva":          FieldVAT,
	"vat":          FieldVAT,
	"vatrate":      FieldVAT,
	"puht":         FieldUnitPrice,
	"prixunitaire": FieldUnitPrice,
	"unitprice":    FieldUnitPrice,
	"price":        FieldUnitPrice,
	"quantites":    FieldQuantity,
	"quantite":     FieldQuantity,
	"quantity":     FieldQuantity,
	"qty":          FieldQuantity,
	"stock":        FieldQuantity,
}

// ParseField resolves a column name. Matching ignores case, accents,
// spaces, dots, dashes and underscores, and accepts English aliases.
func ParseField(name string) (Field, error) {
	if f, ok := fieldAliases[NormalizeName(name)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// NormalizeName folds a column name to its comparison key.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	folded := cases.Fold().String(stripped)
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == '.', r == '_', r == '-':
			return -1
		default:
			return r
		}
	}, folded)
}

func (f Field) String() string { return string(f) }
