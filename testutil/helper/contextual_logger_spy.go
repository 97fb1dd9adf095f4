package helper

import (
	"context"
	"sync"

	"github.com/Silviu-Marian/reedux/reducers"
)

// ContextualLoggerSpy is a reducers.ContextualLogger implementation that captures contextual logging calls,
// including the context each message was logged with.
type ContextualLoggerSpy struct {
	records []SpyContextualLogRecord
	mu      sync.Mutex
}

// SpyContextualLogRecord represents a recorded contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyContextualLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

// DebugContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

// InfoContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

// WarnContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

// ErrorContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// RecordsWithMessage returns the captured records carrying msg, in logging order.
func (s *ContextualLoggerSpy) RecordsWithMessage(msg string) []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []SpyContextualLogRecord
	for _, record := range s.records {
		if record.Message == msg {
			matching = append(matching, record)
		}
	}

	return matching
}

var _ reducers.ContextualLogger = (*ContextualLoggerSpy)(nil)
