// Package testutil provides testing utilities for datefilter.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random timestamps and input files,
// and for computing the exact filter output to compare against.
//
// # Random Timestamp Generation
//
//	rng := testutil.NewRNG(seed)
//	ts := rng.Timestamps(1000, 1990, 2030)
//	lines := rng.Lines(ts, testutil.LineOptions{DuplicateRate: 0.3})
//
// # Ground Truth
//
//	want := testutil.ExactUnique(lines)
package testutil
