// Package rulefile loads merchant rules from a local CSV file, as an
// alternative rule source when no spreadsheet is configured.
package rulefile

import (
	"context"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// Source reads merchant rules from a CSV file with the columns pattern,
// merchant, category, priority. It implements rulecache.Loader, so the file
// is re-read on every cache refresh and edits take effect within one TTL.
type Source struct {
	path   string
	logger logging.Logger
}

// NewSource creates a Source for the given CSV file.
func NewSource(path string, logger logging.Logger) *Source {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Source{path: path, logger: logger}
}

// Load reads and parses the rule file.
func (s *Source) Load(_ context.Context) ([]models.MerchantRule, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening rule file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close rule file")
		}
	}()

	var rules []models.MerchantRule
	if err := gocsv.UnmarshalFile(file, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rule file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "file", Value: s.path},
		logging.Field{Key: "count", Value: len(rules)},
	).Info("Merchant rules read from file")

	return rules, nil
}
