package helper

import (
	"sync"
	"time"
)

// MetricsCollectorSpy is a reducers.MetricsCollector implementation that captures metrics calls for testing.
type MetricsCollectorSpy struct {
	durationRecords []SpyDurationRecord
	counterRecords  []SpyCounterRecord
	valueRecords    []SpyValueRecord
	mu              sync.Mutex
	recordCalls     bool
}

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyCounterRecord represents a recorded counter increment call.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyValueRecord represents a recorded value metric call.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
// Set recordCalls to true to capture all metrics calls for inspection in tests.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		durationRecords: make([]SpyDurationRecord, 0),
		counterRecords:  make([]SpyCounterRecord, 0),
		valueRecords:    make([]SpyValueRecord, 0),
		recordCalls:     recordCalls,
	}
}

// RecordDuration implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyDurationRecord{
		Metric:   metric,
		Duration: duration,
		Labels:   copyLabels(labels),
	})
}

// IncrementCounter implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyCounterRecord{
		Metric: metric,
		Labels: copyLabels(labels),
	})
}

// RecordValue implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyValueRecord{
		Metric: metric,
		Value:  value,
		Labels: copyLabels(labels),
	})
}

// GetCounterRecords returns a copy of all captured counter records.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyCounterRecord, len(s.counterRecords))
	copy(records, s.counterRecords)

	return records
}

// GetValueRecords returns a copy of all captured value records.
func (s *MetricsCollectorSpy) GetValueRecords() []SpyValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyValueRecord, len(s.valueRecords))
	copy(records, s.valueRecords)

	return records
}

// Reset clears all captured metric records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = s.durationRecords[:0]
	s.counterRecords = s.counterRecords[:0]
	s.valueRecords = s.valueRecords[:0]
}

// LastValueForMetric returns the most recently recorded value of a gauge metric.
func (s *MetricsCollectorSpy) LastValueForMetric(metric string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.valueRecords) - 1; i >= 0; i-- {
		if s.valueRecords[i].Metric == metric {
			return s.valueRecords[i].Value, true
		}
	}

	return 0, false
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
type MetricRecordMatcher struct {
	candidates []map[string]string
}

// HasDurationRecordForMetric starts a fluent chain to check the duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &MetricRecordMatcher{}
	for _, record := range s.durationRecords {
		if record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record.Labels)
		}
	}

	return matcher
}

// HasCounterRecordForMetric starts a fluent chain to check the counter records of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &MetricRecordMatcher{}
	for _, record := range s.counterRecords {
		if record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record.Labels)
		}
	}

	return matcher
}

// HasValueRecordForMetric starts a fluent chain to check the value records of metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &MetricRecordMatcher{}
	for _, record := range s.valueRecords {
		if record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record.Labels)
		}
	}

	return matcher
}

// WithLabel keeps only the records that have the label key set to value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	kept := m.candidates[:0:0]
	for _, labels := range m.candidates {
		if labelValue, exists := labels[key]; exists && labelValue == value {
			kept = append(kept, labels)
		}
	}
	m.candidates = kept

	return m
}

// WithRegistryID keeps only the records labelled with registryID.
func (m *MetricRecordMatcher) WithRegistryID(registryID string) *MetricRecordMatcher {
	return m.WithLabel("registry_id", registryID)
}

// WithReducerKind keeps only the records labelled with the reducer kind ("typed" or "unconditional").
func (m *MetricRecordMatcher) WithReducerKind(kind string) *MetricRecordMatcher {
	return m.WithLabel("reducer_kind", kind)
}

// Count returns how many records are left in the chain.
func (m *MetricRecordMatcher) Count() int {
	return len(m.candidates)
}

// Assert returns true if at least one record met all conditions in the fluent chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

// CountCounterRecordsForMetric counts how many counter records exist for a specific metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	return s.HasCounterRecordForMetric(metric).Count()
}

// CountDurationRecordsForMetric counts how many duration records exist for a specific metric.
func (s *MetricsCollectorSpy) CountDurationRecordsForMetric(metric string) int {
	return s.HasDurationRecordForMetric(metric).Count()
}

func copyLabels(labels map[string]string) map[string]string {
	labelsCopy := make(map[string]string, len(labels))
	for k, v := range labels {
		labelsCopy[k] = v
	}

	return labelsCopy
}
