// Package store loads the allowed category list from a YAML file, falling
// back to the built-in defaults when no file is configured.
package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// categoriesFile is the YAML shape: a top-level "categories" key holding a
// list of names.
type categoriesFile struct {
	Categories []string `yaml:"categories"`
}

// CategoryStore loads the closed category set offered to the fallback
// classifier.
type CategoryStore struct {
	path   string
	logger logging.Logger
}

// NewCategoryStore creates a store reading from path. An empty path means
// the defaults are always used.
func NewCategoryStore(path string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &CategoryStore{path: path, logger: logger}
}

// LoadCategories returns the configured category list. A missing or empty
// file yields the defaults rather than an error; "Unknown" is always
// appended so the classifier can refuse to classify.
func (s *CategoryStore) LoadCategories() ([]string, error) {
	if s.path == "" {
		return models.DefaultCategories, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", s.path).
				Warn("Categories file not found, using defaults")
			return models.DefaultCategories, nil
		}
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var parsed categoriesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	if len(parsed.Categories) == 0 {
		s.logger.WithField("file", s.path).
			Warn("Categories file is empty, using defaults")
		return models.DefaultCategories, nil
	}

	categories := make([]string, 0, len(parsed.Categories)+1)
	hasUnknown := false
	for _, c := range parsed.Categories {
		if c == "" {
			continue
		}
		if c == models.UnknownCategory {
			hasUnknown = true
		}
		categories = append(categories, c)
	}
	if !hasUnknown {
		categories = append(categories, models.UnknownCategory)
	}

	s.logger.WithField("count", len(categories)).Debug("Categories loaded")
	return categories, nil
}
