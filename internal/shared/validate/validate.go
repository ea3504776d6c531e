package validate

import (
	"fmt"

	"community-service/internal/shared/httpx"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			f := errs[0]
			return fmt.Errorf("%w: field %q failed on %q", httpx.ErrValidation, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: invalid payload", httpx.ErrValidation)
	}
	return nil
}
