// Package money holds the lenient amount parsing shared by the order
// extractor, the shipping resolver and the earnings calculator.
//
// Amounts are shopspring decimals so fee math stays exact
// (100 * 2.9% + 0.30 is 3.2, not 3.1999999999999997).
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// nonNumeric matches every character that cannot be part of a plain decimal.
var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseAmount parses a plain decimal such as "50.00" or "-3.5".
// Anything unparsable, including the empty string, is zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseLoose strips every character other than digits, '.' and '-' before
// parsing, so "$12.50" and "USD 1,204.10" both parse. ok is false when
// nothing parsable is left.
func ParseLoose(s string) (decimal.Decimal, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
