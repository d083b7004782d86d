package partition

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/datefilter/internal/treeset"
)

var (
	// ErrSlotOutOfRange is returned for a coarse or fine index outside the
	// configured slot counts.
	ErrSlotOutOfRange = errors.New("partition: slot out of range")

	// ErrInvalidConfig is returned by New for unusable slot counts.
	ErrInvalidConfig = errors.New("partition: invalid config")
)

// Config describes the shape of an Index.
type Config struct {
	// CoarseSlots is the number of buckets.
	CoarseSlots int
	// FineSlots is the number of trees per bucket.
	FineSlots int
	// NodeBits is the per-node bitmap width of every tree.
	NodeBits int
}

// Option configures an Index.
type Option func(*Index)

// WithMemoryAcquirer charges bucket and tree allocations against acquirer.
func WithMemoryAcquirer(acquirer treeset.MemoryAcquirer) Option {
	return func(ix *Index) {
		ix.acquirer = acquirer
	}
}

// WithOnTreeCreated registers a callback invoked after a slot's tree is
// created.
func WithOnTreeCreated(fn func(coarse, fine int)) Option {
	return func(ix *Index) {
		ix.onCreate = fn
	}
}

type bucket struct {
	trees []*treeset.Tree
	live  int
}

// Index is the two-level coarse/fine lookup of bitset trees.
type Index struct {
	cfg      Config
	buckets  []*bucket
	acquirer treeset.MemoryAcquirer
	onCreate func(coarse, fine int)

	bucketCount int
	treeCount   int
}

// New creates an empty Index.
func New(cfg Config, opts ...Option) (*Index, error) {
	if cfg.CoarseSlots <= 0 || cfg.FineSlots <= 0 {
		return nil, fmt.Errorf("%w: slots %dx%d", ErrInvalidConfig, cfg.CoarseSlots, cfg.FineSlots)
	}
	if err := treeset.ValidateCapacity(cfg.NodeBits); err != nil {
		return nil, err
	}

	ix := &Index{
		cfg:     cfg,
		buckets: make([]*bucket, cfg.CoarseSlots),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// Config returns the shape the index was created with.
func (ix *Index) Config() Config { return ix.cfg }

func (ix *Index) bucketCost() int64 {
	return int64(ix.cfg.FineSlots) * int64(unsafe.Sizeof((*treeset.Tree)(nil)))
}

func (ix *Index) checkSlot(coarse, fine int) error {
	if coarse < 0 || coarse >= ix.cfg.CoarseSlots || fine < 0 || fine >= ix.cfg.FineSlots {
		return fmt.Errorf("%w: (%d, %d) not within %dx%d", ErrSlotOutOfRange, coarse, fine, ix.cfg.CoarseSlots, ix.cfg.FineSlots)
	}
	return nil
}

// ResolveTree returns the tree for (coarse, fine), creating the bucket and
// the tree on first use.
//
// Allocation failures wrap treeset.ErrAllocationFailed; nothing is cached
// for the slot in that case.
func (ix *Index) ResolveTree(coarse, fine int) (*treeset.Tree, error) {
	t, created, err := ix.resolve(coarse, fine)
	if err != nil {
		return nil, err
	}
	if created && ix.onCreate != nil {
		ix.onCreate(coarse, fine)
	}
	return t, nil
}

// SetBit sets the bit at offset in the tree of (coarse, fine) and reports
// whether it was already set.
//
// A slot is only populated once its first node exists: if that node cannot
// be allocated, the new tree and an otherwise empty bucket are dropped again
// and their memory is returned, so a failed call leaves the index as it was.
func (ix *Index) SetBit(coarse, fine int, offset uint64) (bool, error) {
	t, created, err := ix.resolve(coarse, fine)
	if err != nil {
		return false, err
	}

	wasSet, err := t.SetBit(offset, true)
	if err != nil {
		if created {
			ix.drop(coarse, fine)
		}
		return false, err
	}

	if created && ix.onCreate != nil {
		ix.onCreate(coarse, fine)
	}
	return wasSet, nil
}

func (ix *Index) resolve(coarse, fine int) (t *treeset.Tree, created bool, err error) {
	if err := ix.checkSlot(coarse, fine); err != nil {
		return nil, false, err
	}

	b := ix.buckets[coarse]
	if b == nil {
		if ix.acquirer != nil {
			if err := ix.acquirer.AcquireMemory(ix.bucketCost()); err != nil {
				return nil, false, fmt.Errorf("%w: bucket %d: %w", treeset.ErrAllocationFailed, coarse, err)
			}
		}
		b = &bucket{trees: make([]*treeset.Tree, ix.cfg.FineSlots)}
		ix.buckets[coarse] = b
		ix.bucketCount++
	}

	if t := b.trees[fine]; t != nil {
		return t, false, nil
	}

	var opts []treeset.Option
	if ix.acquirer != nil {
		opts = append(opts, treeset.WithMemoryAcquirer(ix.acquirer))
	}
	t, err = treeset.New(ix.cfg.NodeBits, opts...)
	if err != nil {
		if b.live == 0 {
			ix.freeBucket(coarse)
		}
		return nil, false, err
	}
	b.trees[fine] = t
	b.live++
	ix.treeCount++
	return t, true, nil
}

// drop destroys the tree of (coarse, fine) and frees its bucket when no
// other tree is left in it.
func (ix *Index) drop(coarse, fine int) {
	b := ix.buckets[coarse]
	if b == nil || b.trees[fine] == nil {
		return
	}
	b.trees[fine].Destroy()
	b.trees[fine] = nil
	b.live--
	ix.treeCount--
	if b.live == 0 {
		ix.freeBucket(coarse)
	}
}

func (ix *Index) freeBucket(coarse int) {
	ix.buckets[coarse] = nil
	ix.bucketCount--
	if ix.acquirer != nil {
		ix.acquirer.ReleaseMemory(ix.bucketCost())
	}
}

// Lookup returns the tree for (coarse, fine) without allocating.
func (ix *Index) Lookup(coarse, fine int) (*treeset.Tree, bool) {
	if ix.checkSlot(coarse, fine) != nil {
		return nil, false
	}
	b := ix.buckets[coarse]
	if b == nil || b.trees[fine] == nil {
		return nil, false
	}
	return b.trees[fine], true
}

// Range calls fn for every populated slot in (coarse, fine) order until fn
// returns false.
func (ix *Index) Range(fn func(coarse, fine int, t *treeset.Tree) bool) {
	for c, b := range ix.buckets {
		if b == nil {
			continue
		}
		for f, t := range b.trees {
			if t == nil {
				continue
			}
			if !fn(c, f, t) {
				return
			}
		}
	}
}

// TeardownAll destroys every tree and frees every bucket. The index is
// empty afterwards.
func (ix *Index) TeardownAll() {
	for c, b := range ix.buckets {
		if b == nil {
			continue
		}
		for f, t := range b.trees {
			if t != nil {
				t.Destroy()
				b.trees[f] = nil
			}
		}
		ix.freeBucket(c)
	}
	ix.treeCount = 0
}

// Stats summarizes the populated part of an Index.
type Stats struct {
	Buckets     int
	Trees       int
	Nodes       int
	SetBits     uint64
	MemoryBytes int64
}

// Stats walks the populated slots and returns their totals.
func (ix *Index) Stats() Stats {
	s := Stats{
		Buckets:     ix.bucketCount,
		Trees:       ix.treeCount,
		MemoryBytes: int64(ix.bucketCount) * ix.bucketCost(),
	}
	ix.Range(func(_, _ int, t *treeset.Tree) bool {
		s.Nodes += t.Len()
		s.SetBits += t.Cardinality()
		s.MemoryBytes += t.MemoryUsage()
		return true
	})
	return s
}
