package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/datefilter/internal/timestamp"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Timestamps generates num valid UTC timestamps with years in
// [minYear, maxYear]. Days respect month lengths and leap years.
func (r *RNG) Timestamps(num, minYear, maxYear int) []timestamp.Timestamp {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]timestamp.Timestamp, num)
	for i := range out {
		year := minYear + r.rand.Intn(maxYear-minYear+1)
		month := 1 + r.rand.Intn(12)
		out[i] = timestamp.Timestamp{
			Year:   year,
			Month:  month,
			Day:    1 + r.rand.Intn(timestamp.DaysIn(year, month)),
			Hour:   r.rand.Intn(24),
			Minute: r.rand.Intn(60),
			Second: r.rand.Intn(60),
		}
	}
	return out
}

// LineOptions controls the noise Lines mixes into generated input.
type LineOptions struct {
	// DuplicateRate is the chance that a line repeats an earlier one.
	DuplicateRate float64
	// GarbageRate is the chance that a line is not a timestamp at all.
	GarbageRate float64
	// OffsetRate is the chance that a timestamp is written with a
	// non-zero UTC offset instead of "Z".
	OffsetRate float64
}

var garbage = []string{
	"",
	"not a timestamp",
	"2024-01-01 00:00:00Z",
	"2024-13-01T00:00:00Z",
	"2023-02-29T00:00:00Z",
	"2024-01-01T24:00:00Z",
	"2024-01-01T00:00:00+24:00",
	"12024-01-01T00:00:00Z",
}

// Lines renders every timestamp of ts as an input line and mixes in
// duplicates, garbage and offset forms according to opts. An offset form
// denotes the same instant as its source timestamp; its local year must
// still have four digits.
func (r *RNG) Lines(ts []timestamp.Timestamp, opts LineOptions) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		switch p := r.rand.Float64(); {
		case p < opts.GarbageRate:
			lines = append(lines, garbage[r.rand.Intn(len(garbage))])
		case p < opts.GarbageRate+opts.DuplicateRate && len(lines) > 0:
			lines = append(lines, lines[r.rand.Intn(len(lines))])
		}

		if r.rand.Float64() < opts.OffsetRate {
			lines = append(lines, withOffset(t, r.rand.Intn(2*14*60+1)-14*60))
			continue
		}
		lines = append(lines, t.String())
	}
	return lines
}

// withOffset formats t in a zone minutes east of UTC.
func withOffset(t timestamp.Timestamp, minutes int) string {
	if minutes == 0 {
		minutes = 30
	}
	local := t.Time().Add(time.Duration(minutes)*time.Minute)
	sign := byte('+')
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d%c%02d:%02d",
		local.Year(), int(local.Month()), local.Day(), local.Hour(), local.Minute(), local.Second(),
		sign, minutes/60, minutes%60)
}

// ExactUnique returns, in input order, the lines a filter must write:
// the first line of every distinct parsable instant.
func ExactUnique(lines []string) []string {
	seen := make(map[timestamp.Timestamp]struct{}, len(lines))
	var out []string
	for _, line := range lines {
		ts, err := timestamp.Parse(line)
		if err != nil {
			continue
		}
		ts.Adjusted = false
		if _, ok := seen[ts]; ok {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, line)
	}
	return out
}
