package mocks

import (
	"fmt"
	"sync"

	"github.com/user/keysnap/pkg/ports"
)

// LogEntry is one message recorded by Logger.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Msg       string
	Args      []interface{}
}

// Logger is a mock implementation of ports.Logger that records every entry.
// Loggers derived with WithComponent share the parent's entries.
type Logger struct {
	mu        *sync.Mutex
	entries   *[]LogEntry
	component string
}

// NewLogger creates a new recording Logger.
func NewLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

func (m *Logger) log(level ports.LogLevel, msg string, args []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.entries = append(*m.entries, LogEntry{Level: level, Component: m.component, Msg: msg, Args: args})
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.log(ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.log(ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.log(ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.log(ports.LevelError, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{mu: m.mu, entries: m.entries, component: component}
}

// Entries returns a copy of every recorded entry.
func (m *Logger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(*m.entries))
	copy(out, *m.entries)
	return out
}

// Count returns the number of entries at level.
func (m *Logger) Count(level ports.LogLevel) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Messages returns the formatted messages at level.
func (m *Logger) Messages(level ports.LogLevel) []string {
	var out []string
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, fmt.Sprintf(e.Msg, e.Args...))
		}
	}
	return out
}

var _ ports.Logger = (*Logger)(nil)
