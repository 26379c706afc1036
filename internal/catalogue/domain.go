package catalogue

import "errors"

// Product is one catalogue row.
type Product struct {
	Index       int     `validate:"gte=0"`
	Designation string  `validate:"required"`
	VATRate     float64 `validate:"gte=0,lte=100"`
	UnitPrice   float64 `validate:"gte=0"`
	Stock       Stock   `validate:"-"`
}

// DisplayRow is a product rendered for humans, quantities mapped to markers.
type DisplayRow struct {
	Index       int
	Designation string
	VATRate     float64
	UnitPrice   float64
	Quantity    string
}

// Change describes an applied field edit.
type Change struct {
	Index int
	Field Field
	Old   string
	New   string
}

// Seed rows used when no catalogue has been persisted yet. The third row is
// not for sale so the unavailable path can be exercised.
var seedProducts = []Product{
	{Index: 0, Designation: "Produit A", VATRate: 20, UnitPrice: 100, Stock: InStock(50)},
	{Index: 1, Designation: "Produit B", VATRate: 5, UnitPrice: 200, Stock: InStock(30)},
	{Index: 2, Designation: "Produit C", VATRate: 10, UnitPrice: 150, Stock: Unavailable()},
}

var (
	// ErrCatalogueNotFound indicates no persisted catalogue exists yet.
	ErrCatalogueNotFound = errors.New("catalogue: persisted catalogue not found")
	// ErrNotLoaded indicates the service was used before Load.
	ErrNotLoaded = errors.New("catalogue: not loaded")
	// ErrInvalidIndex indicates an unknown product index.
	ErrInvalidIndex = errors.New("catalogue: invalid index")
	// ErrDuplicateIndex indicates two rows share an index.
	ErrDuplicateIndex = errors.New("catalogue: duplicate index")
	// ErrUnknownField indicates an unrecognised column name.
	ErrUnknownField = errors.New("catalogue: unknown field")
	// ErrInvalidNumber indicates a value that does not parse as a number.
	ErrInvalidNumber = errors.New("catalogue: invalid number")
	// ErrInvalidValue indicates a value rejected by product validation.
	ErrInvalidValue = errors.New("catalogue: invalid value")
	// ErrInvalidQuantity indicates a quantity that is not allowed.
	ErrInvalidQuantity = errors.New("catalogue: invalid quantity")
	// ErrNotPurchasable indicates a product that is not for sale.
	ErrNotPurchasable = errors.New("catalogue: product not purchasable")
	// ErrOutOfStock indicates a product with no units left.
	ErrOutOfStock = errors.New("catalogue: product out of stock")
	// ErrInsufficientStock indicates a request larger than the available units.
	ErrInsufficientStock = errors.New("catalogue: insufficient stock")
)
