package accountdelivery

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidDecimal validates whether the field holds a decimal number within
// domain.CheckAmountBounds.
var ValidDecimal validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		d, err := decimal.NewFromString(s)
		return err == nil && domain.CheckAmountBounds(d) == nil
	}

	return false
}

// RegisterValidators adds the custom binding tags used by the ledger handlers.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	if err := v.RegisterValidation("decimal", ValidDecimal); err != nil {
		return errors.New("cannot register decimal validator")
	}

	return nil
}
