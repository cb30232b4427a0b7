// Package pipeline orchestrates the processing of a single bank message:
// field extraction, rule-based merchant resolution, fallback classification
// and final record assembly.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smsledger/internal/extractor"
	"smsledger/internal/logging"
	"smsledger/internal/models"
	"smsledger/internal/resolver"
)

// RuleProvider supplies the current merchant rule set. Satisfied by
// rulecache.Cache.
type RuleProvider interface {
	Rules(ctx context.Context) []models.MerchantRule
}

// Classifier is the fallback resolution path consulted when no rule matches.
// Satisfied by classifier.Adapter.
type Classifier interface {
	Classify(ctx context.Context, message, rawMerchant string) models.ResolutionResult
}

// Pipeline wires the stages together. Construction is cheap; one Pipeline is
// shared across requests.
type Pipeline struct {
	extractor  *extractor.Extractor
	rules      RuleProvider
	resolver   *resolver.Resolver
	classifier Classifier
	clock      func() time.Time
	strict     bool
	logger     logging.Logger
}

// Options tunes pipeline behavior beyond its collaborators.
type Options struct {
	// Strict makes Process reject messages with no recognizable amount
	// instead of recording them with a zero amount.
	Strict bool

	// Clock stamps CreatedAt on assembled records. Defaults to time.Now.
	Clock func() time.Time
}

// New creates a Pipeline.
func New(ex *extractor.Extractor, rules RuleProvider, res *resolver.Resolver, cls Classifier, opts Options, logger logging.Logger) *Pipeline {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Pipeline{
		extractor:  ex,
		rules:      rules,
		resolver:   res,
		classifier: cls,
		clock:      opts.Clock,
		strict:     opts.Strict,
		logger:     logger,
	}
}

// Process runs one message through the full pipeline and returns the
// assembled transaction record.
//
// By default processing is lenient: unparseable fields degrade to their
// defaults and a record is always produced. In strict mode a blank message or
// a message with no recognizable amount is rejected with an error describing
// what was missing.
func (p *Pipeline) Process(ctx context.Context, message string) (models.TransactionRecord, error) {
	if strings.TrimSpace(message) == "" {
		if p.strict {
			return models.TransactionRecord{}, fmt.Errorf("message is empty")
		}
		p.logger.Warn("Processing empty message, all fields will be defaults")
	}

	fields := p.extractor.Extract(message)

	if p.strict && fields.Amount.IsZero() {
		return models.TransactionRecord{}, fmt.Errorf("no amount found in message")
	}

	resolution, matched := p.resolver.Resolve(fields.RawMerchant, p.rules.Rules(ctx))
	if !matched {
		p.logger.WithField("merchant", fields.RawMerchant).
			Debug("No rule matched, consulting fallback classifier")
		resolution = p.classifier.Classify(ctx, message, fields.RawMerchant)
	}

	record := models.TransactionRecord{
		ExtractedFields:  fields,
		ResolutionResult: resolution,
		CreatedAt:        p.clock(),
	}

	p.logger.WithFields(
		logging.Field{Key: "transaction_id", Value: record.TransactionID},
		logging.Field{Key: "merchant", Value: record.Merchant},
		logging.Field{Key: "category", Value: record.Category},
		logging.Field{Key: "source", Value: string(record.Source)},
	).Info("Message processed")

	return record, nil
}
