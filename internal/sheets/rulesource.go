package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sheetsapi "google.golang.org/api/sheets/v4"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// RuleSource loads merchant rules from a spreadsheet range. It implements
// rulecache.Loader; each row is pattern, merchant, category, priority.
type RuleSource struct {
	service       *sheetsapi.Service
	spreadsheetID string
	readRange     string
	logger        logging.Logger
}

// NewRuleSource creates a RuleSource reading from cfg.RulesRange.
func NewRuleSource(service *sheetsapi.Service, cfg Config, logger logging.Logger) *RuleSource {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &RuleSource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.RulesRange,
		logger:        logger,
	}
}

// Load fetches the rule range and parses it. Malformed rows are logged and
// skipped rather than failing the whole load.
func (s *RuleSource) Load(ctx context.Context) ([]models.MerchantRule, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read rule range %s: %w", s.readRange, err)
	}

	rules, skipped := parseRuleRows(resp.Values)
	if skipped > 0 {
		s.logger.WithField("skipped", skipped).Warn("Skipped malformed rule rows")
	}
	return rules, nil
}

// parseRuleRows converts raw sheet rows into merchant rules. A row needs at
// least pattern, merchant and category; a missing or unparseable priority
// defaults to zero.
func parseRuleRows(rows [][]interface{}) (rules []models.MerchantRule, skipped int) {
	rules = make([]models.MerchantRule, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			skipped++
			continue
		}

		rule := models.MerchantRule{
			Pattern:  cellString(row[0]),
			Merchant: cellString(row[1]),
			Category: cellString(row[2]),
		}
		if rule.Pattern == "" || rule.Merchant == "" || rule.Category == "" {
			skipped++
			continue
		}

		if len(row) > 3 {
			if p, err := strconv.Atoi(cellString(row[3])); err == nil {
				rule.Priority = p
			}
		}

		rules = append(rules, rule)
	}
	return rules, skipped
}

func cellString(cell interface{}) string {
	return strings.TrimSpace(fmt.Sprintf("%v", cell))
}
