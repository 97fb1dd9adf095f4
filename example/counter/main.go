// Command counter declares a "numbers" slice on an in-memory store and reduces a sequence of actions,
// printing the state tree after each one.
//
//	go run ./example/counter run INC INC POW DEC
//	go run ./example/counter run --preload '{"legacy":"kept"}' --metrics INC
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Silviu-Marian/reedux/reducers"
	"github.com/Silviu-Marian/reedux/reducers/memstore"
	"github.com/Silviu-Marian/reedux/reducers/oteladapters"
)

type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Run RunCmd `cmd:"" help:"Dispatch actions to a store with a numbers slice"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply(kctx *kong.Context) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	kctx.Bind(logger)

	return nil
}

type RunCmd struct {
	Initial int      `help:"Initial value of the numbers slice" default:"0"`
	Preload string   `help:"JSON object the store starts from"`
	Metrics bool     `help:"Print the collected registry metrics when done"`
	Actions []string `arg:"" optional:"" help:"Action types to dispatch (INC, DEC, POW)" default:"INC,INC,POW,DEC"`
}

func (r *RunCmd) Run(logger *slog.Logger) error {
	options := []memstore.Option{memstore.WithLogger(logger)}
	if r.Preload != "" {
		options = append(options, memstore.WithPreloadedStateJSON([]byte(r.Preload)))
	}

	store, err := memstore.New(reducers.IdentityTransition, options...)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	binding, err := reducers.Bind(
		store,
		reducers.WithContextualLogger(oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())),
		reducers.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("counter"))),
		reducers.WithTracing(oteladapters.NewTracingCollector(nil)),
	)
	if err != nil {
		return fmt.Errorf("bind store: %w", err)
	}

	numbers := binding.DeclareSlice("numbers", r.Initial)
	numbers.AddReducerForType("INC", reducers.TypedReducer(func(n int, _ reducers.Action) int { return n + 1 }))
	numbers.AddReducerForType("DEC", reducers.TypedReducer(func(n int, _ reducers.Action) int { return n - 1 }))
	numbers.AddReducerForType("POW", reducers.TypedReducer(func(n int, _ reducers.Action) int { return n * n }))

	if err := printState(os.Stdout, "declared", store.GetState()); err != nil {
		return err
	}

	for _, actionType := range r.Actions {
		if err := store.Dispatch(reducers.Action{Type: actionType}); err != nil {
			return fmt.Errorf("dispatch %s: %w", actionType, err)
		}

		if err := printState(os.Stdout, actionType, store.GetState()); err != nil {
			return err
		}
	}

	if r.Metrics {
		return printMetrics(os.Stdout, reader)
	}

	return nil
}

func printState(w io.Writer, label string, state *reducers.State) error {
	data, err := state.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = fmt.Fprintf(w, "%-8s %s\n", label, data)

	return err
}

func printMetrics(w io.Writer, reader *sdkmetric.ManualReader) error {
	var resourceMetrics metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &resourceMetrics); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, point := range data.DataPoints {
					_, _ = fmt.Fprintf(w, "%s %d\n", m.Name, point.Value)
				}
			case metricdata.Gauge[float64]:
				for _, point := range data.DataPoints {
					_, _ = fmt.Fprintf(w, "%s %g\n", m.Name, point.Value)
				}
			case metricdata.Histogram[float64]:
				for _, point := range data.DataPoints {
					_, _ = fmt.Fprintf(w, "%s count=%d sum=%gs\n", m.Name, point.Count, point.Sum)
				}
			}
		}
	}

	return nil
}

func main() {
	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("counter"),
		kong.Description("Reduce actions with dynamically registered slice reducers."),
		kong.UsageOnError(),
	)

	kctx.FatalIfErrorf(kctx.Run())
}
