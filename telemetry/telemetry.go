// Package telemetry collects nested operation timings for the --telemetry flag.
//
// A Collector travels in the context so store and report code can time their
// work without extra parameters. When no collector is present every call is a
// no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "store.load expenses.json")
//	defer timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type contextKey int

const (
	collectorKey contextKey = iota
	timerKey
)

// Collector records timers and reports them.
type Collector interface {
	// Start begins a top-level timer, or a child of the most recently started
	// timer that has not ended yet.
	Start(name string) Timer

	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer measures a single operation.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the collector in ctx, or a collector that does nothing.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noop{}
}

// WithRootTimer returns a context whose StartTimer calls nest under timer.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, timerKey, timer)
}

// StartTimer starts a timer under the root timer in ctx when there is one,
// otherwise directly on the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	if parent, ok := ctx.Value(timerKey).(Timer); ok {
		return parent.Child(name)
	}
	return FromContext(ctx).Start(name)
}

type noop struct{}

func (noop) Start(string) Timer { return noop{} }
func (noop) Report(io.Writer)   {}
func (noop) End()               {}
func (noop) Child(string) Timer { return noop{} }
