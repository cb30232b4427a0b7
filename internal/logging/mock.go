package logging

import "sync"

// MockLogger is a Logger implementation for tests. It records every message
// together with its level and accumulated fields.
type MockLogger struct {
	mu      sync.Mutex
	fields  []Field
	Entries []MockEntry
	parent  *MockLogger
}

// MockEntry is one recorded log call.
type MockEntry struct {
	Level   string
	Message string
	Fields  []Field
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) root() *MockLogger {
	if m.parent != nil {
		return m.parent.root()
	}
	return m
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	root := m.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	all := append(append([]Field{}, m.fields...), fields...)
	root.Entries = append(root.Entries, MockEntry{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return m.WithField("error", err)
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return &MockLogger{
		fields: append(append([]Field{}, m.fields...), Field{Key: key, Value: value}),
		parent: m.root(),
	}
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{
		fields: append(append([]Field{}, m.fields...), fields...),
		parent: m.root(),
	}
}

// Messages returns all recorded messages at the given level.
func (m *MockLogger) Messages(level string) []string {
	root := m.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	var msgs []string
	for _, e := range root.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
