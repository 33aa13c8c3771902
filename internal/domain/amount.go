package domain

import "github.com/shopspring/decimal"

// Limits on amounts accepted from callers.
const (
	MaxFractionDigits = 8
	MaxIntegerDigits  = 18
)

var amountCeiling = decimal.New(1, MaxIntegerDigits)

// CheckAmountBounds rejects amounts written with more than MaxFractionDigits
// decimal places or with MaxIntegerDigits or more integer digits.
func CheckAmountBounds(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -MaxFractionDigits || exp > MaxIntegerDigits {
		return ErrAmountOutOfBounds
	}

	if d.Abs().Cmp(amountCeiling) >= 0 {
		return ErrAmountOutOfBounds
	}

	return nil
}
