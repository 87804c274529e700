// Package memory provides an in-memory logging backend that records every
// entry, used by tests asserting on warning output.
package memory

import "sync"

// Entry is one recorded log call.
type Entry struct {
	Level   string
	Message string
	Keyvals []any
}

// Logger records log entries instead of writing them anywhere.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty recording logger.
func New() *Logger {
	return &Logger{}
}

// Entries returns a copy of everything recorded so far.
func (m *Logger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Reset clears the recorded entries.
func (m *Logger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

func (m *Logger) record(level, message string, keyvals []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message, Keyvals: keyvals})
}

// Debug records a DEBUG entry.
func (m *Logger) Debug(message string, keyvals ...any) { m.record("debug", message, keyvals) }

// Info records an INFO entry.
func (m *Logger) Info(message string, keyvals ...any) { m.record("info", message, keyvals) }

// Warn records a WARN entry.
func (m *Logger) Warn(message string, keyvals ...any) { m.record("warn", message, keyvals) }

// Error records an ERROR entry.
func (m *Logger) Error(message string, keyvals ...any) { m.record("error", message, keyvals) }

// Fatal records a FATAL entry without terminating, so tests can assert on it.
func (m *Logger) Fatal(message string, keyvals ...any) { m.record("fatal", message, keyvals) }
