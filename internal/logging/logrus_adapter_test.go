package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter() (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return NewLogrusAdapterFromLogger(logger), buf
}

func TestNewLogrusAdapter_InvalidLevel(t *testing.T) {
	logger := NewLogrusAdapter("nonsense", "text")
	require.NotNil(t, logger)
	// Should not panic and should still log at info level.
	logger.Info("still works")
}

func TestLogrusAdapter_FieldsAppearInOutput(t *testing.T) {
	logger, buf := newTestAdapter()

	logger.WithFields(
		Field{Key: "merchant", Value: "SWIGGY"},
		Field{Key: "priority", Value: 5},
	).Info("rule matched")

	out := buf.String()
	assert.Contains(t, out, "rule matched")
	assert.Contains(t, out, "SWIGGY")
	assert.Contains(t, out, "merchant")
}

func TestLogrusAdapter_WithError(t *testing.T) {
	logger, buf := newTestAdapter()

	logger.WithError(errors.New("load failed")).Warn("serving stale rules")

	out := buf.String()
	assert.Contains(t, out, "serving stale rules")
	assert.Contains(t, out, "load failed")
}

func TestLogrusAdapter_WithFieldDoesNotMutateParent(t *testing.T) {
	logger, buf := newTestAdapter()

	child := logger.WithField("source", "rule_match")
	child.Debug("child message")
	logger.Debug("parent message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "rule_match")
	assert.NotContains(t, lines[1], "rule_match")
}

func TestMockLogger_RecordsEntries(t *testing.T) {
	mock := NewMockLogger()
	mock.WithField("attempt", 1).Warn("fallback invoked")
	mock.Info("record appended")

	assert.Equal(t, []string{"fallback invoked"}, mock.Messages("warn"))
	assert.Equal(t, []string{"record appended"}, mock.Messages("info"))
	require.Len(t, mock.Entries, 2)
	assert.Equal(t, "attempt", mock.Entries[0].Fields[0].Key)
}
