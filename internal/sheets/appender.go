package sheets

import (
	"context"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// Appender appends processed transactions to the ledger sheet.
type Appender struct {
	service       *sheetsapi.Service
	spreadsheetID string
	ledgerRange   string
	logger        logging.Logger
}

// NewAppender creates an Appender writing to cfg.LedgerRange.
func NewAppender(service *sheetsapi.Service, cfg Config, logger logging.Logger) *Appender {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Appender{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		ledgerRange:   cfg.LedgerRange,
		logger:        logger,
	}
}

// Append writes one transaction record as a new ledger row.
func (a *Appender) Append(ctx context.Context, record models.TransactionRecord) error {
	valueRange := &sheetsapi.ValueRange{
		Values: [][]interface{}{record.Row()},
	}

	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, a.ledgerRange, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append ledger row: %w", err)
	}

	a.logger.WithFields(
		logging.Field{Key: "transaction_id", Value: record.TransactionID},
		logging.Field{Key: "merchant", Value: record.Merchant},
	).Info("Transaction appended to ledger")

	return nil
}
