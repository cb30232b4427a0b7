package extractor

import (
	"regexp"

	"github.com/shopspring/decimal"

	"smsledger/internal/models"
)

// Amount patterns in priority order: currency marker then digits, digits
// then currency marker, then a transaction verb followed by an optional
// marker and digits. Thousands separators are stripped before parsing.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?:rs\.?|inr|₹)`),
	regexp.MustCompile(`(?i)(?:debited|credited|paid|sent|received|withdrawn|spent)\s+(?:by|with|for|of)?\s*(?:rs\.?|inr|₹)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`),
}

// extractAmount returns the first amount matched by the ordered pattern
// list, or zero when nothing matches.
func extractAmount(message string) decimal.Decimal {
	for _, re := range amountPatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			return models.ParseAmount(m[1])
		}
	}
	return decimal.Zero
}
