// Package money holds the decimal amounts exchanged with the storefront backend.
package money

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Amount is a lenient decimal: it decodes JSON numbers and numeric strings,
// and anything else (null, bool, garbage, absent) as zero.
type Amount struct {
	decimal.Decimal
}

// New wraps d
func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// RequireFromString parses s and panics on failure; for constants and tests
func RequireFromString(s string) Amount {
	return Amount{Decimal: decimal.RequireFromString(s)}
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Decimal = decimal.Zero

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	if d, err := decimal.NewFromString(raw); err == nil {
		a.Decimal = d
	}
	return nil
}

// MarshalJSON writes the amount as a JSON number
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// MinorUnits converts a major-unit amount to integer minor units (cents),
// rounding half away from zero: 19.9 -> 1990, 10.005 -> 1001.
func MinorUnits(total decimal.Decimal) int64 {
	return total.Mul(hundred).Round(0).IntPart()
}
