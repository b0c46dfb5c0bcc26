package spies

import (
	"context"
	"slices"
	"sync"
)

// LogRecord is one captured log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy implements both eventstore.Logger and eventstore.ContextualLogger.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.add("debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.add("info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.add("warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.add("error", msg, args) }

func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) { s.add("debug", msg, args) }
func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any)  { s.add("info", msg, args) }
func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any)  { s.add("warn", msg, args) }
func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) { s.add("error", msg, args) }

func (s *LoggerSpy) add(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: slices.Clone(args)})
}

// Records returns a copy of all captured log calls.
func (s *LoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// HasMessage reports whether msg was logged at level.
func (s *LoggerSpy) HasMessage(level, msg string) bool {
	return slices.ContainsFunc(s.Records(), func(r LogRecord) bool {
		return r.Level == level && r.Message == msg
	})
}
