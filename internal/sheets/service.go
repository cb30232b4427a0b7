// Package sheets integrates with Google Sheets as both the merchant rule
// source and the transaction ledger store.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"smsledger/internal/logging"
)

// Config identifies the spreadsheet and the ranges used for rules and the
// ledger.
type Config struct {
	SpreadsheetID      string
	RulesRange         string
	LedgerRange        string
	ServiceAccountFile string
}

// Validate checks that the config identifies a spreadsheet.
func (c Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required")
	}
	if c.ServiceAccountFile == "" {
		return fmt.Errorf("service account file is required")
	}
	return nil
}

// NewService authenticates with a service-account key file and returns a
// Sheets API service.
func NewService(ctx context.Context, cfg Config, logger logging.Logger) (*sheetsapi.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets config: %w", err)
	}

	jsonKey, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account key file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}

	service, err := sheetsapi.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logger.WithField("spreadsheet_id", cfg.SpreadsheetID).Debug("Sheets service created")
	return service, nil
}
