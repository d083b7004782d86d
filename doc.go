// Package datefilter answers "has this instant been seen before" for
// second-resolution timestamps across the years -1 to 10099.
//
// A Filter partitions time by century and year. Every populated year owns a
// red-black tree whose nodes carry a 60-bit bitmap, so a year costs memory
// only for the stretches of seconds that actually occur.
//
// # Quick Start
//
//	f, err := datefilter.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Teardown()
//
//	seen, err := f.Insert(2024, 1, 1, 0, 0, 0) // false
//	seen, err = f.Insert(2024, 1, 1, 0, 0, 0)  // true
//
// Timestamps parsed from text are inserted with InsertTimestamp:
//
//	ts, err := timestamp.Parse("2024-01-01T01:00:00+01:00")
//	seen, err := f.InsertTimestamp(ts)
//
// # Memory
//
// Tree nodes are charged against a memory budget. WithMemoryLimit sets a
// private budget and WithResourceController shares one between filters.
// When the budget is exhausted Insert fails with an error matching
// ErrAllocationFailed and the filter is left unchanged.
//
// # Concurrency
//
// A Filter is not safe for concurrent use. Run one Filter per goroutine;
// a shared resource controller is safe.
//
// # Observability
//
// WithLogger attaches a structured Logger and WithMetricsCollector a
// MetricsCollector. PrometheusCollector exports the same counters through
// client_golang.
package datefilter
