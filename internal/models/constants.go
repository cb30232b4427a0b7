package models

// Sentinels used when extraction finds nothing usable.
const (
	UnknownMerchant = "Unknown"
	UnknownAccount  = "Unknown"
	UnknownCategory = "Unknown"
)

// Confidence policy: rule matches carry a fixed high confidence, fallback
// classifier output is capped lower regardless of what the model reports.
const (
	RuleMatchConfidence   = 0.95
	FallbackConfidenceCap = 0.7
)

// TimestampLayout is the one output format used for dates on every code path.
const TimestampLayout = "2006-01-02 15:04:05"

// TransactionIDPrefix prefixes synthesized transaction identifiers.
const TransactionIDPrefix = "TXN"

// DefaultCategories is the closed category set offered to the fallback
// classifier and enforced on its output. A configured category store may
// replace this list, but "Unknown" is always a member.
var DefaultCategories = []string{
	"Food & Dining",
	"Groceries",
	"Shopping",
	"Transport",
	"Entertainment",
	"Utilities",
	"Health",
	"Travel",
	"Education",
	"Rent",
	"Salary",
	"Investment",
	"Transfer",
	UnknownCategory,
}
