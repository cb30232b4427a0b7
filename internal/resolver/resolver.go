// Package resolver matches extracted merchant tokens against the cached
// merchant rule table.
package resolver

import (
	"strings"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// Resolver resolves raw merchant tokens to canonical merchants and
// categories using a rule list.
type Resolver struct {
	logger logging.Logger
}

// New creates a Resolver.
func New(logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Resolver{logger: logger}
}

// Resolve matches rawMerchant against the rules. A rule matches when the
// normalized merchant contains the rule's normalized pattern as a substring;
// containment rather than equality tolerates the prefixes and suffixes banks
// attach to merchant strings. Among matching rules the numerically highest
// priority wins, with ties broken by rule-list order.
//
// The second return value reports whether any rule matched. An empty or
// "Unknown" merchant and an empty rule list are immediate no-matches; the
// decision to consult the fallback classifier belongs to the orchestrator,
// not here.
func (r *Resolver) Resolve(rawMerchant string, rules []models.MerchantRule) (models.ResolutionResult, bool) {
	if rawMerchant == "" || rawMerchant == models.UnknownMerchant || len(rules) == 0 {
		return models.ResolutionResult{}, false
	}

	normalized := Normalize(rawMerchant)
	if normalized == "" {
		return models.ResolutionResult{}, false
	}

	var best *models.MerchantRule
	for i := range rules {
		rule := &rules[i]
		if rule.Pattern == "" || !strings.Contains(normalized, rule.Pattern) {
			continue
		}
		if best == nil || rule.Priority > best.Priority {
			best = rule
		}
	}

	if best == nil {
		return models.ResolutionResult{}, false
	}

	r.logger.WithFields(
		logging.Field{Key: "merchant", Value: best.Merchant},
		logging.Field{Key: "category", Value: best.Category},
		logging.Field{Key: "priority", Value: best.Priority},
	).Debug("Merchant resolved by rule")

	return models.ResolutionResult{
		Merchant:   best.Merchant,
		Category:   best.Category,
		Confidence: models.RuleMatchConfidence,
		Source:     models.SourceRuleMatch,
	}, true
}
