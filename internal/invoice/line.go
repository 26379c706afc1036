package invoice

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/okayo/okayo/internal/catalogue"
)

// ErrInvalidLine indicates a line item rejected by validation.
var ErrInvalidLine = errors.New("invoice: invalid line")

var validate = validator.New()

// Line is one purchased product, copied from the catalogue at purchase time.
type Line struct {
	Designation string  `validate:"required"`
	VATRate     float64 `validate:"gte=0,lte=100"`
	UnitPrice   float64 `validate:"gte=0"`
	Quantity    int     `validate:"gt=0"`
}

// TotalHT is the amount excluding tax.
func (l Line) TotalHT() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// TotalTTC is the amount including tax.
func (l Line) TotalTTC() float64 {
	return l.TotalHT() * (1 + l.VATRate/100)
}

// Validate checks the line fields.
func (l Line) Validate() error {
	if err := validate.Struct(l); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalidLine, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	return nil
}

// LineFromProduct copies p into a line of qty units.
func LineFromProduct(p catalogue.Product, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, fmt.Errorf("%w: %d", catalogue.ErrInvalidQuantity, qty)
	}
	l := Line{
		Designation: p.Designation,
		VATRate:     p.VATRate,
		UnitPrice:   p.UnitPrice,
		Quantity:    qty,
	}
	if err := l.Validate(); err != nil {
		return Line{}, err
	}
	return l, nil
}
