package datefilter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/datefilter/internal/partition"
	"github.com/hupe1980/datefilter/internal/timestamp"
	"github.com/hupe1980/datefilter/internal/tskey"
	"github.com/hupe1980/datefilter/internal/treeset"
)

const (
	// CenturySlots is the number of coarse partitions.
	CenturySlots = 101
	// YearSlots is the number of years per century partition.
	YearSlots = 100
	// DefaultNodeBits is the bitmap width of every tree node.
	DefaultNodeBits = 60

	// MinYear and MaxYear bound the years a Filter can hold. Years are
	// shifted by one so that normalizing 0000-01-01 to the previous day
	// still lands in century 0.
	MinYear = -1
	MaxYear = CenturySlots*YearSlots - 2
)

// Filter records second-resolution instants and reports repeats.
type Filter struct {
	index   *partition.Index
	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty Filter.
func New(optFns ...Option) (*Filter, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	f := &Filter{
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	popts := []partition.Option{
		partition.WithOnTreeCreated(func(coarse, fine int) {
			year := yearOf(coarse, fine)
			f.metrics.RecordTreeCreated(year)
			f.logger.WithYear(year).Debug("tree created")
		}),
	}
	if o.budget != nil {
		popts = append(popts, partition.WithMemoryAcquirer(o.budget))
	}

	ix, err := partition.New(partition.Config{
		CoarseSlots: CenturySlots,
		FineSlots:   YearSlots,
		NodeBits:    o.nodeBits,
	}, popts...)
	if err != nil {
		return nil, err
	}
	f.index = ix

	return f, nil
}

func slotOf(year int) (coarse, fine int, err error) {
	if year < MinYear || year > MaxYear {
		return 0, 0, &YearRangeError{Year: year}
	}
	y := year + 1
	return y / YearSlots, y % YearSlots, nil
}

func yearOf(coarse, fine int) int {
	return coarse*YearSlots + fine - 1
}

// Insert records the instant and reports whether it was already present.
//
// Month through second are packed without validation; out-of-range values
// alias other instants of the same year. On error the filter is unchanged.
func (f *Filter) Insert(year, month, day, hour, minute, second int) (bool, error) {
	start := time.Now()
	key := tskey.Encode(month, day, hour, minute, second)

	seen, err := f.insert(year, key)

	f.metrics.RecordInsert(time.Since(start), seen, err)
	f.logger.LogInsert(context.Background(), year, key, seen, err)
	return seen, err
}

func (f *Filter) insert(year int, key uint32) (bool, error) {
	coarse, fine, err := slotOf(year)
	if err != nil {
		return false, err
	}

	seen, err := f.index.SetBit(coarse, fine, uint64(key))
	if err != nil {
		return false, fmt.Errorf("datefilter: year %d: %w", year, err)
	}
	return seen, nil
}

// InsertTimestamp records a parsed, UTC-normalized timestamp.
func (f *Filter) InsertTimestamp(ts timestamp.Timestamp) (bool, error) {
	return f.Insert(ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}

// Contains reports whether the instant was recorded. It never allocates.
func (f *Filter) Contains(year, month, day, hour, minute, second int) bool {
	coarse, fine, err := slotOf(year)
	if err != nil {
		return false
	}
	tree, ok := f.index.Lookup(coarse, fine)
	if !ok {
		return false
	}
	return tree.CheckBit(uint64(tskey.Encode(month, day, hour, minute, second)))
}

// Stats summarizes the populated part of a Filter.
type Stats struct {
	Centuries   int
	Trees       int
	Nodes       int
	SetBits     uint64
	MemoryBytes int64
}

// Stats returns current totals.
func (f *Filter) Stats() Stats {
	s := f.index.Stats()
	return Stats{
		Centuries:   s.Buckets,
		Trees:       s.Trees,
		Nodes:       s.Nodes,
		SetBits:     s.SetBits,
		MemoryBytes: s.MemoryBytes,
	}
}

// TreeInfo describes the tree of one populated year.
type TreeInfo struct {
	Year         int
	Nodes        int
	SetBits      uint64
	Height       int
	AverageDepth float64
}

// TreeInfo returns one entry per populated year, in ascending year order.
func (f *Filter) TreeInfo() []TreeInfo {
	var infos []TreeInfo
	f.index.Range(func(coarse, fine int, t *treeset.Tree) bool {
		infos = append(infos, TreeInfo{
			Year:         yearOf(coarse, fine),
			Nodes:        t.Len(),
			SetBits:      t.Cardinality(),
			Height:       t.Height(),
			AverageDepth: t.AverageDepth(),
		})
		return true
	})
	return infos
}

// DumpTrees writes the structure of every populated year tree to w.
func (f *Filter) DumpTrees(w io.Writer) error {
	var err error
	f.index.Range(func(coarse, fine int, t *treeset.Tree) bool {
		if _, err = fmt.Fprintf(w, "year %d\n", yearOf(coarse, fine)); err != nil {
			return false
		}
		err = t.Dump(w)
		return err == nil
	})
	return err
}

// Teardown releases every tree. The Filter is empty afterwards and may be
// reused.
func (f *Filter) Teardown() {
	ctx := context.Background()
	for _, info := range f.TreeInfo() {
		f.logger.LogTree(ctx, info)
	}

	stats := f.Stats()
	f.index.TeardownAll()

	f.metrics.RecordTeardown(stats)
	f.logger.LogTeardown(ctx, stats)
}
