package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary string into a decimal, tolerating thousands
// separators as they appear in bank notifications ("1,23,456.78" as well as
// "1,234.56"). Returns zero on anything unparseable; the extractor treats a
// zero amount as "no amount found".
func ParseAmount(s string) decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
