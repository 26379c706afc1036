package catalogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateProduct(p Product) error {
	if strings.TrimSpace(p.Designation) == "" {
		return fmt.Errorf("%w: designation is required", ErrInvalidValue)
	}
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
