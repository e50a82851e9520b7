// Package extract turns estimate and schedule CSV exports into line items.
package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "", "\u00a0", "")

// CleanAmount parses a currency cell such as "$1,234.50". Anything that does
// not parse, and any negative value, yields zero.
func CleanAmount(s string) decimal.Decimal {
	cleaned := amountReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseAmount is the strict form of CleanAmount: it reports whether s held a
// number at all.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := amountReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
