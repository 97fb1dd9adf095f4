package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/Silviu-Marian/reedux/reducers/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")
	assert.NotNil(t, logger, "NewSlogBridgeLogger should return non-nil logger")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "info message", "key", "value")
	}, "logging through the global provider should not panic")
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message", "slice", "numbers")
	logger.InfoContext(ctx, "info message", "slice_count", 2)
	logger.WarnContext(ctx, "warn message", "changed", true)
	logger.ErrorContext(ctx, "error message", "duration_ms", 1.5)

	output := buf.String()

	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message","slice":"numbers"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message","slice_count":2`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message","changed":true`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message","duration_ms":1.5`)
}

func Test_OTelLogger_EmitsRecords(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	logger.WarnContext(context.Background(), "slice redeclared, reducers kept",
		"slice", "numbers",
		"slice_count", 3,
		"changed", false,
		"duration_ms", 0.25,
		"action_type", struct{ name string }{name: "x"},
		"dangling",
	)

	require.Len(t, recorder.records, 1)
	record := recorder.records[0]

	assert.Equal(t, log.SeverityWarn, record.Severity())
	assert.Equal(t, "slice redeclared, reducers kept", record.Body().AsString())

	attrs := map[string]log.Value{}
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	assert.Len(t, attrs, 5, "the dangling key should be dropped")
	assert.Equal(t, "numbers", attrs["slice"].AsString())
	assert.Equal(t, int64(3), attrs["slice_count"].AsInt64())
	assert.False(t, attrs["changed"].AsBool())
	assert.Equal(t, 0.25, attrs["duration_ms"].AsFloat64())
	assert.Equal(t, log.KindString, attrs["action_type"].Kind())
}

func Test_OTelLogger_AllLevels(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug")
	logger.InfoContext(ctx, "info")
	logger.WarnContext(ctx, "warn")
	logger.ErrorContext(ctx, "error")

	require.Len(t, recorder.records, 4)
	assert.Equal(t, log.SeverityDebug, recorder.records[0].Severity())
	assert.Equal(t, log.SeverityInfo, recorder.records[1].Severity())
	assert.Equal(t, log.SeverityWarn, recorder.records[2].Severity())
	assert.Equal(t, log.SeverityError, recorder.records[3].Severity())
}

// recordingLogger keeps every emitted record.
type recordingLogger struct {
	noop.Logger
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.records = append(l.records, record)
}
