package extractor

import (
	"regexp"
	"strings"

	"smsledger/internal/models"
)

// Merchant token patterns in priority order: "to X" before a reference, date
// or UPI marker; a bare UPI id; "from X" before an account or date marker;
// "at X" before a stop marker. Two historical variants of this extraction
// disagreed on this order, so it is fixed here and pinned by tests.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bto\s+(.+?)(?:\s+(?:on|via|ref\w*|utr|using|for|info|upi)\b|[.,;]|$)`),
	regexp.MustCompile(`\b([a-zA-Z0-9._-]+@[a-zA-Z][a-zA-Z0-9]*)\b`),
	regexp.MustCompile(`(?i)\bfrom\s+(.+?)(?:\s+(?:on|via|ref\w*|utr|a/c|using|info)\b|[.,;]|$)`),
	regexp.MustCompile(`(?i)\bat\s+(.+?)(?:\s+(?:on|via|ref\w*|using|info)\b|[.,;]|$)`),
}

// extractMerchant returns the raw merchant token, trimmed, or the "Unknown"
// sentinel when no pattern matches.
func extractMerchant(message string) string {
	for _, re := range merchantPatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			token := strings.TrimSpace(m[1])
			if token != "" {
				return token
			}
		}
	}
	return models.UnknownMerchant
}

// Transaction identifier patterns in priority order: account suffix,
// reference number, UTR number, masked account digits.
var transactionIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\ba/c\s*(?:no\.?\s*)?[xX*]*(\d{3,6})\b`),
	regexp.MustCompile(`(?i)\bref(?:erence)?\s*(?:no\.?|number|id)?\s*[:\-]?\s*([A-Za-z0-9]{6,20})\b`),
	regexp.MustCompile(`(?i)\butr\s*(?:no\.?)?\s*[:\-]?\s*([A-Za-z0-9]{8,22})\b`),
	regexp.MustCompile(`[xX*]{2,}(\d{4})\b`),
}

// extractTransactionID returns the first identifier matched by the ordered
// pattern list; when nothing matches, one is synthesized from the clock.
func (e *Extractor) extractTransactionID(message string) string {
	for _, re := range transactionIDPatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			return m[1]
		}
	}
	return e.synthesizeTransactionID()
}
