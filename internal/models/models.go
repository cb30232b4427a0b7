// Package models defines the core data structures shared across the
// sms-ledger pipeline: extracted message fields, merchant rules, resolution
// results and the final transaction record.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money left or entered the account.
type Direction string

const (
	DirectionInflow  Direction = "Inflow"
	DirectionOutflow Direction = "Outflow"
)

// PaymentMethod is the instrument the bank message refers to.
type PaymentMethod string

const (
	MethodUPI        PaymentMethod = "UPI"
	MethodCard       PaymentMethod = "Card"
	MethodNetBanking PaymentMethod = "Net Banking"
	MethodWallet     PaymentMethod = "Wallet"
	MethodCash       PaymentMethod = "Cash"
)

// ResolutionSource records which path produced a merchant resolution.
type ResolutionSource string

const (
	SourceRuleMatch          ResolutionSource = "rule_match"
	SourceFallbackClassifier ResolutionSource = "fallback_classifier"
)

// ExtractedFields holds everything the extractor pulls out of a single bank
// notification message. Every field is always populated: when a pattern does
// not match, the field degrades to its documented default instead of staying
// empty.
type ExtractedFields struct {
	Amount        decimal.Decimal
	Direction     Direction
	Method        PaymentMethod
	Account       string
	TransactionID string
	Timestamp     time.Time
	RawMerchant   string
}

// MerchantRule is one row of the merchant resolution table. Pattern is stored
// already normalized; rules are immutable once loaded and the whole set is
// replaced on refresh, never mutated in place.
type MerchantRule struct {
	Pattern  string `csv:"pattern"`
	Merchant string `csv:"merchant"`
	Category string `csv:"category"`
	Priority int    `csv:"priority"`
}

// ResolutionResult is the outcome of merchant resolution, whether it came
// from the rule table or from the fallback classifier.
type ResolutionResult struct {
	Merchant   string           `json:"merchant"`
	Category   string           `json:"category"`
	Confidence float64          `json:"confidence"`
	Source     ResolutionSource `json:"source"`
}

// TransactionRecord is the externally visible output of the pipeline and the
// unit appended to the ledger store.
type TransactionRecord struct {
	ExtractedFields
	ResolutionResult
	CreatedAt time.Time
}

// Row returns the record as one ledger row in the fixed column order expected
// by the external store: transaction id, date, amount, category, merchant,
// account, payment method, direction, created-at.
func (r TransactionRecord) Row() []interface{} {
	return []interface{}{
		r.TransactionID,
		r.Timestamp.Format(TimestampLayout),
		r.Amount.StringFixed(2),
		r.Category,
		r.Merchant,
		r.Account,
		string(r.Method),
		string(r.Direction),
		r.CreatedAt.Format(TimestampLayout),
	}
}
