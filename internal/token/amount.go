package token

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^([0-9]+\.?[0-9]*|\.[0-9]+)$`)

// Amount is a base-unit integer with the decimals that scale it for display.
type Amount struct {
	Raw      *big.Int
	Decimals uint8
}

// NewAmount copies raw into an Amount.
func NewAmount(raw *big.Int, decimals uint8) *Amount {
	return &Amount{Raw: new(big.Int).Set(raw), Decimals: decimals}
}

// String returns the exact decimal representation, e.g. "5.3".
func (a Amount) String() string {
	return FormatAmount(a.Raw, a.Decimals)
}

// Float64 is for presentation only. Never compare amounts with it.
func (a Amount) Float64() float64 {
	if a.Raw == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(a.Raw, -int32(a.Decimals)).Float64()
	return f
}

// ParseAmount converts a decimal string into base units: "5.3" with 18
// decimals is 5300000000000000000. Negative values, exponents and more
// fractional digits than decimals allows are rejected.
func ParseAmount(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, invalid("amount", "amount is required")
	}
	if strings.HasPrefix(s, "-") {
		return nil, invalid("amount", "amount must not be negative")
	}
	if !amountPattern.MatchString(s) {
		return nil, invalid("amount", "not a decimal number")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, invalid("amount", "not a decimal number")
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, invalid("amount", "too many decimal places")
	}
	return scaled.BigInt(), nil
}

// FormatAmount renders base units as an exact decimal string with trailing
// zeros dropped.
func FormatAmount(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}
