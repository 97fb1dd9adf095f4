package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// Handle implements slog.Handler interface.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true // Always enabled for testing
}

// WithAttrs implements slog.Handler interface.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler interface.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// GetRecords returns a copy of all captured log records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]slog.Record, len(s.records))
	copy(records, s.records)

	return records
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// CountLogsWithMessage counts the log records of the given level with the given message.
func (s *LogHandlerSpy) CountLogsWithMessage(level slog.Level, message string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			count++
		}
	}

	return count
}

// SpyLogRecordMatcher provides a fluent interface for checking log record attributes.
// Each condition narrows the records that are still candidates.
type SpyLogRecordMatcher struct {
	candidates []slog.Record
}

func (s *LogHandlerSpy) hasLogWithMessage(level slog.Level, message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &SpyLogRecordMatcher{}
	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			matcher.candidates = append(matcher.candidates, record)
		}
	}

	return matcher
}

// HasDebugLogWithMessage starts a fluent chain to check debug-level log records.
func (s *LogHandlerSpy) HasDebugLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelDebug, message)
}

// HasInfoLogWithMessage starts a fluent chain to check info-level log records.
func (s *LogHandlerSpy) HasInfoLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelInfo, message)
}

// HasWarnLogWithMessage starts a fluent chain to check warn-level log records.
func (s *LogHandlerSpy) HasWarnLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelWarn, message)
}

// HasErrorLogWithMessage starts a fluent chain to check error-level log records.
func (s *LogHandlerSpy) HasErrorLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelError, message)
}

func (m *SpyLogRecordMatcher) filter(keep func(attr slog.Attr) bool, key string) *SpyLogRecordMatcher {
	kept := m.candidates[:0:0]
	for _, record := range m.candidates {
		matched := false
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == key {
				matched = keep(attr)
				return false
			}

			return true
		})

		if matched {
			kept = append(kept, record)
		}
	}
	m.candidates = kept

	return m
}

// WithDurationMS keeps the records having a duration_ms attribute with a non-negative value.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	return m.filter(func(attr slog.Attr) bool {
		switch attr.Value.Kind() {
		case slog.KindInt64:
			return attr.Value.Int64() >= 0

		case slog.KindFloat64:
			return attr.Value.Float64() >= 0

		default:
			return false // Other types are not supported for duration
		}
	}, "duration_ms")
}

// WithAttribute keeps the records having an attribute key whose string form equals value.
func (m *SpyLogRecordMatcher) WithAttribute(key, value string) *SpyLogRecordMatcher {
	return m.filter(func(attr slog.Attr) bool {
		return attr.Value.String() == value
	}, key)
}

// Count returns how many records are left in the chain.
func (m *SpyLogRecordMatcher) Count() int {
	return len(m.candidates)
}

// Assert returns true if at least one record met all conditions in the fluent chain.
func (m *SpyLogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
