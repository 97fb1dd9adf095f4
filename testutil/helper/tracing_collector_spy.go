package helper

import (
	"context"
	"sync"

	"github.com/Silviu-Marian/reedux/reducers"
)

// SpySpanContext implements reducers.SpanContext for testing tracing functionality.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

// SetStatus implements reducers.SpanContext.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// AddAttribute implements reducers.SpanContext.
func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attributes[key] = value
}

// GetStatus returns the status set on the span.
func (c *SpySpanContext) GetStatus() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// TracingCollectorSpy is a reducers.TracingCollector implementation that captures tracing calls for testing.
type TracingCollectorSpy struct {
	spanRecords []SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpySpanRecord represents a recorded span. Status and EndAttributes are empty until the span was finished.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
	SpanContext     *SpySpanContext
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
// Set recordCalls to true to capture all tracing calls for inspection in tests.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{
		spanRecords: make([]SpySpanRecord, 0),
		recordCalls: recordCalls,
	}
}

// StartSpan implements the TracingCollector interface.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, reducers.SpanContext) {
	if !s.recordCalls {
		return ctx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	spanCtx := &SpySpanContext{attributes: make(map[string]string)}

	s.spanRecords = append(s.spanRecords, SpySpanRecord{
		Name:            name,
		StartAttributes: copyLabels(attrs),
		SpanContext:     spanCtx,
	})

	return ctx, spanCtx
}

// FinishSpan implements the TracingCollector interface.
func (s *TracingCollectorSpy) FinishSpan(spanCtx reducers.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls || spanCtx == nil {
		return
	}

	testSpanCtx, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.spanRecords {
		if s.spanRecords[i].SpanContext == testSpanCtx {
			s.spanRecords[i].Status = status
			s.spanRecords[i].EndAttributes = copyLabels(attrs)
			s.spanRecords[i].Finished = true
			break
		}
	}
}

// GetSpanRecords returns a copy of all captured span records.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpySpanRecord, len(s.spanRecords))
	copy(records, s.spanRecords)

	return records
}

// Reset clears all captured span records.
func (s *TracingCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spanRecords = s.spanRecords[:0]
}

// CountSpanRecordsForName counts how many span records exist for a specific name.
func (s *TracingCollectorSpy) CountSpanRecordsForName(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.spanRecords {
		if record.Name == name {
			count++
		}
	}

	return count
}

// CountUnfinishedSpans counts the spans that were started but never finished.
func (s *TracingCollectorSpy) CountUnfinishedSpans() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.spanRecords {
		if !record.Finished {
			count++
		}
	}

	return count
}

// SpanRecordMatcher provides a fluent interface for checking span records.
type SpanRecordMatcher struct {
	candidates []SpySpanRecord
}

// HasSpanRecordForName starts a fluent chain over all span records named name.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &SpanRecordMatcher{}
	for _, record := range s.spanRecords {
		if record.Name == name {
			matcher.candidates = append(matcher.candidates, record)
		}
	}

	return matcher
}

func (m *SpanRecordMatcher) filter(keep func(record SpySpanRecord) bool) *SpanRecordMatcher {
	kept := m.candidates[:0:0]
	for _, record := range m.candidates {
		if keep(record) {
			kept = append(kept, record)
		}
	}
	m.candidates = kept

	return m
}

// WithStatus keeps the span records finished with status.
func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.filter(func(record SpySpanRecord) bool {
		return record.Status == status && record.SpanContext.GetStatus() == status
	})
}

// WithStartAttribute keeps the span records started with the attribute key set to value.
func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(record SpySpanRecord) bool {
		attrValue, exists := record.StartAttributes[key]
		return exists && attrValue == value
	})
}

// WithEndAttribute keeps the span records finished with the attribute key set to value.
func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(record SpySpanRecord) bool {
		attrValue, exists := record.EndAttributes[key]
		return exists && attrValue == value
	})
}

// Assert returns true if at least one span record met all conditions in the fluent chain.
func (m *SpanRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
