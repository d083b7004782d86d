package datefilter

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
// PrometheusCollector is the client_golang implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert. seen reports whether the
	// instant was already present; err is nil if successful.
	RecordInsert(duration time.Duration, seen bool, err error)

	// RecordTreeCreated is called when a year gets its first tree.
	RecordTreeCreated(year int)

	// RecordInput is called by drivers after a whole input was filtered.
	RecordInput(lines, parseFailures, written, duplicates int, duration time.Duration)

	// RecordTeardown is called with the totals a teardown released.
	RecordTeardown(stats Stats)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, bool, error)       {}
func (NoopMetricsCollector) RecordTreeCreated(int)                         {}
func (NoopMetricsCollector) RecordInput(int, int, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordTeardown(Stats)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertDuplicates atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	TreesCreated     atomic.Int64
	InputCount       atomic.Int64
	InputLines       atomic.Int64
	ParseFailures    atomic.Int64
	LinesWritten     atomic.Int64
	Teardowns        atomic.Int64
	NodesReleased    atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, seen bool, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.InsertErrors.Add(1)
	case seen:
		b.InsertDuplicates.Add(1)
	}
}

// RecordTreeCreated implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTreeCreated(int) {
	b.TreesCreated.Add(1)
}

// RecordInput implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInput(lines, parseFailures, written, _ int, _ time.Duration) {
	b.InputCount.Add(1)
	b.InputLines.Add(int64(lines))
	b.ParseFailures.Add(int64(parseFailures))
	b.LinesWritten.Add(int64(written))
}

// RecordTeardown implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTeardown(stats Stats) {
	b.Teardowns.Add(1)
	b.NodesReleased.Add(int64(stats.Nodes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		InsertCount:      b.InsertCount.Load(),
		InsertDuplicates: b.InsertDuplicates.Load(),
		InsertErrors:     b.InsertErrors.Load(),
		TreesCreated:     b.TreesCreated.Load(),
		InputCount:       b.InputCount.Load(),
		InputLines:       b.InputLines.Load(),
		ParseFailures:    b.ParseFailures.Load(),
		LinesWritten:     b.LinesWritten.Load(),
		Teardowns:        b.Teardowns.Load(),
		NodesReleased:    b.NodesReleased.Load(),
	}
	if s.InsertCount > 0 {
		s.InsertAvgNanos = b.InsertTotalNanos.Load() / s.InsertCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount      int64
	InsertDuplicates int64
	InsertErrors     int64
	InsertAvgNanos   int64
	TreesCreated     int64
	InputCount       int64
	InputLines       int64
	ParseFailures    int64
	LinesWritten     int64
	Teardowns        int64
	NodesReleased    int64
}
