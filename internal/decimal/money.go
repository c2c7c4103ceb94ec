package decimal

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// ErrNotPlainDecimal is returned for text that is not an unsigned plain decimal
var ErrNotPlainDecimal = errors.New("not an unsigned plain decimal")

// digits, optionally followed by a dot and more digits: no sign, exponent or spaces
var plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseAmount parses a CFDI amount such as "116.00".
// Signs, exponents, thousands separators and surrounding spaces are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !plainDecimal.MatchString(s) {
		return Zero, ErrNotPlainDecimal
	}
	return decimal.NewFromString(s)
}

// Net computes subtotal - discount, rounded to centavos
func Net(subtotal, discount decimal.Decimal) decimal.Decimal {
	return RoundMXN(subtotal.Sub(discount))
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// RoundMXN rounds to centavos
func RoundMXN(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders an amount with two decimals, the way CFDI documents print them
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
