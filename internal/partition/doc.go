// Package partition shards a flattened key space across many treeset trees.
//
// An Index is a fixed array of coarse buckets; each bucket is a fixed array
// of fine slots; each slot lazily holds one *treeset.Tree. A slot stays nil
// until the first key is routed to it, so memory follows the ranges that
// are actually used, and every coarse range can be torn down on its own
// lifecycle.
//
// Callers pre-shift their coarse and fine values into [0, CoarseSlots) and
// [0, FineSlots). An Index is not safe for concurrent use.
package partition
