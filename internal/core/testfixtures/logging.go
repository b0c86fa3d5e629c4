package testfixtures

import (
	"strings"
	"sync"

	"mojoscan.dev/cli/internal/core/ports"
)

// LogEntry is one message captured by RecordingLogger
type LogEntry struct {
	Level   ports.LogLevel
	Message string
	Fields  map[string]interface{}
	Err     error
}

// RecordingLogger is a LoggingGateway that keeps every message for assertions
type RecordingLogger struct {
	mu      sync.Mutex
	level   ports.LogLevel
	Entries []LogEntry
}

// NewRecordingLogger creates a logger recording every level
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{level: ports.LogLevelDebug}
}

// Log records a message
func (l *RecordingLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Fields: fields})
}

// LogError records an error at error level
func (l *RecordingLogger) LogError(err error, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: ports.LogLevelError, Message: message, Fields: fields, Err: err})
}

// SetLogLevel sets the reported level
func (l *RecordingLogger) SetLogLevel(level ports.LogLevel) {
	l.level = level
}

// GetLogLevel returns the reported level
func (l *RecordingLogger) GetLogLevel() ports.LogLevel {
	return l.level
}

// Messages returns the messages logged at level
func (l *RecordingLogger) Messages(level ports.LogLevel) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Warnings returns the warn level messages
func (l *RecordingLogger) Warnings() []string {
	return l.Messages(ports.LogLevelWarn)
}

// HasWarning reports whether a warning containing substr was logged
func (l *RecordingLogger) HasWarning(substr string) bool {
	for _, m := range l.Warnings() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
