// Package extractor pulls structured fields out of free-text bank
// notification messages using ordered pattern lists evaluated top-down with
// first-match-wins semantics.
//
// Extraction is a total function: it never fails on malformed input. Every
// field that cannot be extracted degrades to a documented default (zero
// amount, Outflow, UPI, "Unknown" account and merchant, current time,
// synthesized transaction id). Callers that want missing amounts to be fatal
// enforce that policy at the pipeline layer.
package extractor

import (
	"fmt"
	"strings"
	"time"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// Extractor extracts transaction fields from bank messages. The clock is
// injected so synthesized timestamps and transaction ids are deterministic in
// tests.
type Extractor struct {
	clock  func() time.Time
	logger logging.Logger
}

// New creates an Extractor. A nil clock defaults to time.Now.
func New(clock func() time.Time, logger logging.Logger) *Extractor {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Extractor{clock: clock, logger: logger}
}

// inflowKeywords is checked before outflowKeywords; the first set containing
// a keyword present in the message decides the direction.
var inflowKeywords = []string{"credited", "received", "deposited", "refund", "cashback"}

var outflowKeywords = []string{"debited", "paid", "sent", "withdrawn", "purchase", "spent"}

// knownIssuers maps lower-cased issuer markers to the canonical account
// label reported in the record.
var knownIssuers = []struct {
	marker string
	label  string
}{
	{"hdfc", "HDFC"},
	{"icici", "ICICI"},
	{"sbi", "SBI"},
	{"state bank", "SBI"},
	{"axis", "Axis"},
	{"kotak", "Kotak"},
	{"pnb", "PNB"},
	{"punjab national", "PNB"},
	{"bank of baroda", "BoB"},
	{"idfc", "IDFC"},
	{"yes bank", "Yes Bank"},
	{"indusind", "IndusInd"},
	{"canara", "Canara"},
	{"union bank", "Union Bank"},
	{"federal", "Federal"},
	{"paytm payments bank", "Paytm Payments Bank"},
}

// Extract parses one message into ExtractedFields. It never returns an
// error; see the package comment for the degradation policy.
func (e *Extractor) Extract(message string) models.ExtractedFields {
	lower := strings.ToLower(message)

	fields := models.ExtractedFields{
		Amount:        extractAmount(message),
		Direction:     extractDirection(lower),
		Method:        extractMethod(lower),
		Account:       extractAccount(lower),
		TransactionID: e.extractTransactionID(message),
		Timestamp:     e.extractTimestamp(message),
		RawMerchant:   extractMerchant(message),
	}

	e.logger.WithFields(
		logging.Field{Key: "amount", Value: fields.Amount.String()},
		logging.Field{Key: "direction", Value: string(fields.Direction)},
		logging.Field{Key: "merchant", Value: fields.RawMerchant},
	).Debug("Extracted fields from message")

	return fields
}

func extractDirection(lower string) models.Direction {
	for _, kw := range inflowKeywords {
		if strings.Contains(lower, kw) {
			return models.DirectionInflow
		}
	}
	for _, kw := range outflowKeywords {
		if strings.Contains(lower, kw) {
			return models.DirectionOutflow
		}
	}
	return models.DirectionOutflow
}

func extractMethod(lower string) models.PaymentMethod {
	switch {
	case strings.Contains(lower, "upi") || strings.Contains(lower, "@"):
		return models.MethodUPI
	case strings.Contains(lower, "card") || strings.Contains(lower, "atm"):
		return models.MethodCard
	case strings.Contains(lower, "net banking"):
		return models.MethodNetBanking
	case strings.Contains(lower, "wallet"):
		return models.MethodWallet
	case strings.Contains(lower, "cash"):
		return models.MethodCash
	}
	return models.MethodUPI
}

func extractAccount(lower string) string {
	for _, issuer := range knownIssuers {
		if strings.Contains(lower, issuer.marker) {
			return issuer.label
		}
	}
	return models.UnknownAccount
}

// synthesizeTransactionID builds the fallback id from the last 8 digits of
// the current epoch milliseconds.
func (e *Extractor) synthesizeTransactionID() string {
	millis := fmt.Sprintf("%d", e.clock().UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return models.TransactionIDPrefix + millis
}
