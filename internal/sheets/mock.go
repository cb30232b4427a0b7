package sheets

import (
	"context"
	"sync"

	"smsledger/internal/models"
)

// MockAppender is an in-memory ledger appender for tests.
type MockAppender struct {
	mu      sync.Mutex
	Records []models.TransactionRecord
	Err     error
}

// NewMockAppender creates a MockAppender.
func NewMockAppender() *MockAppender {
	return &MockAppender{}
}

// Append records the transaction in memory, or returns the configured error.
func (m *MockAppender) Append(_ context.Context, record models.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Records = append(m.Records, record)
	return nil
}

// Appended returns a copy of the records appended so far.
func (m *MockAppender) Appended() []models.TransactionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TransactionRecord, len(m.Records))
	copy(out, m.Records)
	return out
}
