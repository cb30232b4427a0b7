// Package rulecache holds the merchant rule table, refreshing it from an
// external source on a time-to-live and serving stale contents when a
// refresh fails.
package rulecache

import (
	"context"
	"sync"
	"time"

	"smsledger/internal/logging"
	"smsledger/internal/models"
	"smsledger/internal/resolver"
)

// DefaultTTL is how long a loaded rule set is served before the next
// refresh attempt.
const DefaultTTL = 5 * time.Minute

// Loader fetches merchant rules from an external source. Implementations
// return rules with raw, un-normalized patterns; the cache normalizes them.
type Loader interface {
	Load(ctx context.Context) ([]models.MerchantRule, error)
}

// Cache is the process-wide merchant rule table. The clock and loader are
// injected so tests can drive TTL expiry and load failures deterministically.
//
// Readers always get a snapshot: a refresh builds a complete new slice and
// installs it in one assignment, so an in-flight reader never observes a
// half-updated rule set. Concurrent expired readers may each trigger a
// redundant load; loads are idempotent and infrequent, so no extra mutual
// exclusion is taken around the external call.
type Cache struct {
	loader Loader
	clock  func() time.Time
	ttl    time.Duration
	logger logging.Logger

	mu       sync.RWMutex
	rules    []models.MerchantRule
	loadedAt time.Time
}

// New creates a Cache. A nil clock defaults to time.Now and a non-positive
// ttl to DefaultTTL.
func New(loader Loader, clock func() time.Time, ttl time.Duration, logger logging.Logger) *Cache {
	if clock == nil {
		clock = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Cache{
		loader: loader,
		clock:  clock,
		ttl:    ttl,
		logger: logger,
	}
}

// Rules returns the current rule list, refreshing it from the loader when
// the cached copy is older than the TTL. On load failure the previous
// contents are returned unchanged, which may be stale or empty; the error is
// logged, never returned. Rows with an empty pattern, merchant or category
// are skipped; patterns are normalized with the same function the resolver
// applies to merchant tokens at match time.
func (c *Cache) Rules(ctx context.Context) []models.MerchantRule {
	c.mu.RLock()
	rules, loadedAt := c.rules, c.loadedAt
	c.mu.RUnlock()

	if !loadedAt.IsZero() && c.clock().Sub(loadedAt) < c.ttl {
		return rules
	}

	loaded, err := c.loader.Load(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Rule load failed, serving previous rule set",
			logging.Field{Key: "cached_rules", Value: len(rules)})
		return rules
	}

	fresh := make([]models.MerchantRule, 0, len(loaded))
	skipped := 0
	for _, rule := range loaded {
		if rule.Pattern == "" || rule.Merchant == "" || rule.Category == "" {
			skipped++
			continue
		}
		rule.Pattern = resolver.Normalize(rule.Pattern)
		if rule.Pattern == "" {
			skipped++
			continue
		}
		fresh = append(fresh, rule)
	}

	c.mu.Lock()
	c.rules = fresh
	c.loadedAt = c.clock()
	c.mu.Unlock()

	c.logger.WithFields(
		logging.Field{Key: "rules", Value: len(fresh)},
		logging.Field{Key: "skipped", Value: skipped},
	).Info("Merchant rules refreshed")

	return fresh
}
