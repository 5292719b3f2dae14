package logging

import (
	"fmt"
	"sync"
)

// MockLogger is a mock implementation of the Logger interface for testing.
// It captures log entries for verification in tests. Loggers derived via
// WithError/WithField/WithFields record into the logger they were derived
// from, so a test holding the root MockLogger sees every entry. Recording
// is synchronized so the mock can stand in for the logrus adapter in
// concurrent code paths.
type MockLogger struct {
	mu            sync.Mutex
	Entries       []LogEntry
	parent        *MockLogger
	pendingError  error
	pendingFields []Field
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

func (m *MockLogger) root() *MockLogger {
	if m.parent != nil {
		return m.parent.root()
	}
	return m
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	allFields := append(append([]Field{}, m.pendingFields...), fields...)
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
		Error:   m.pendingError,
	})
}

// Debug logs a debug-level message with optional fields.
func (m *MockLogger) Debug(msg string, fields ...Field) {
	m.record("DEBUG", msg, fields)
}

// Info logs an info-level message with optional fields.
func (m *MockLogger) Info(msg string, fields ...Field) {
	m.record("INFO", msg, fields)
}

// Warn logs a warning-level message with optional fields.
func (m *MockLogger) Warn(msg string, fields ...Field) {
	m.record("WARN", msg, fields)
}

// Error logs an error-level message with optional fields.
func (m *MockLogger) Error(msg string, fields ...Field) {
	m.record("ERROR", msg, fields)
}

// WithError returns a new logger with an error field attached.
func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{
		parent:        m.root(),
		pendingError:  err,
		pendingFields: m.pendingFields,
	}
}

// WithField returns a new logger with a single field attached.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a new logger with multiple fields attached.
func (m *MockLogger) WithFields(fields ...Field) Logger {
	allFields := append(append([]Field{}, m.pendingFields...), fields...)
	return &MockLogger{
		parent:        m.root(),
		pendingError:  m.pendingError,
		pendingFields: allFields,
	}
}

// Fatal logs a fatal-level message.
// In the mock implementation, we don't actually exit.
func (m *MockLogger) Fatal(msg string, fields ...Field) {
	m.record("FATAL", msg, fields)
}

// Fatalf logs a fatal-level message with formatting.
// In the mock implementation, we don't actually exit.
func (m *MockLogger) Fatalf(msg string, args ...interface{}) {
	m.record("FATAL", fmt.Sprintf(msg, args...), nil)
}

// GetEntries returns a snapshot of all captured log entries.
func (m *MockLogger) GetEntries() []LogEntry {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry{}, r.Entries...)
}

// GetEntriesByLevel returns all log entries of a specific level.
func (m *MockLogger) GetEntriesByLevel(level string) []LogEntry {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []LogEntry
	for _, entry := range r.Entries {
		if entry.Level == level {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Clear removes all captured log entries.
func (m *MockLogger) Clear() {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = []LogEntry{}
}

// HasEntry checks if a log entry with the given level and message exists.
func (m *MockLogger) HasEntry(level, message string) bool {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.Entries {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}
