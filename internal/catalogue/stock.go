package catalogue

import (
	"fmt"
	"strconv"
)

// StockState tags the availability of a product.
type StockState uint8

const (
	// StateOutOfStock is sold here but has no unit left.
	StateOutOfStock StockState = iota
	// StateInStock has a positive number of units.
	StateInStock
	// StateUnavailable is listed but never sold.
	StateUnavailable
)

// Persisted quantities for the tagged states.
const (
	unavailableQuantity = -1
	outOfStockQuantity  = 0
)

// Display markers.
const (
	MarkerUnavailable = "N/A"
	MarkerOutOfStock  = "Rupture de stock"
)

func (s StockState) String() string {
	switch s {
	case StateInStock:
		return "in_stock"
	case StateUnavailable:
		return "unavailable"
	default:
		return "out_of_stock"
	}
}

// Stock is the availability of a product. The zero value is out of stock.
type Stock struct {
	state StockState
	count int
}

// InStock returns a stock of n units; n <= 0 is out of stock.
func InStock(n int) Stock {
	if n <= 0 {
		return Stock{state: StateOutOfStock}
	}
	return Stock{state: StateInStock, count: n}
}

// OutOfStock returns an empty stock.
func OutOfStock() Stock {
	return Stock{state: StateOutOfStock}
}

// Unavailable returns the stock of a product that is not for sale.
func Unavailable() Stock {
	return Stock{state: StateUnavailable}
}

// StockFromQuantity decodes a persisted quantity: -1 is unavailable, 0 is
// out of stock, positive values are units in stock.
func StockFromQuantity(q int) (Stock, error) {
	switch {
	case q == unavailableQuantity:
		return Unavailable(), nil
	case q == outOfStockQuantity:
		return OutOfStock(), nil
	case q > 0:
		return InStock(q), nil
	default:
		return Stock{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}
}

// State returns the tag.
func (s Stock) State() StockState { return s.state }

// Available returns the units that can be sold.
func (s Stock) Available() int {
	if s.state != StateInStock {
		return 0
	}
	return s.count
}

// Quantity encodes the stock for persistence.
func (s Stock) Quantity() int {
	switch s.state {
	case StateUnavailable:
		return unavailableQuantity
	case StateInStock:
		return s.count
	default:
		return outOfStockQuantity
	}
}

// Purchasable reports whether the product is for sale at all.
func (s Stock) Purchasable() bool {
	return s.state != StateUnavailable
}

// Marker renders the stock for display.
func (s Stock) Marker() string {
	switch s.state {
	case StateUnavailable:
		return MarkerUnavailable
	case StateInStock:
		return strconv.Itoa(s.count)
	default:
		return MarkerOutOfStock
	}
}

// Take removes n units. The receiver is never modified; on error the
// stock is unchanged.
func (s Stock) Take(n int) (Stock, error) {
	if s.state == StateUnavailable {
		return s, ErrNotPurchasable
	}
	if n <= 0 {
		return s, fmt.Errorf("%w: %d", ErrInvalidQuantity, n)
	}
	if n > s.Available() {
		return s, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, n, s.Available())
	}
	return InStock(s.count - n), nil
}
