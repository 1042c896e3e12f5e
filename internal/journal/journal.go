// Package journal implements the append-only message store backing a
// replay channel. Entries are written once and never mutated, so readers
// of already-published indices need no coordination with writers or with
// each other; the atomic length counter is the single synchronization
// point between an append and the readers that observe it.
package journal

import (
	"sync"
	"sync/atomic"
)

// DefaultChunkCapacity is the number of entries per storage chunk when
// no explicit capacity is configured.
const DefaultChunkCapacity = 256

// chunk is a fixed-capacity run of entries. Once every slot is written
// the chunk is effectively immutable and readable without locking.
type chunk[T any] struct {
	entries []T
}

// Journal is an append-only, index-stable sequence of values shared by
// one or more writers and any number of readers.
//
// Appends are serialized by a narrow mutex that covers slot assignment
// and chunk allocation only. Reads never take the mutex: an entry
// becomes visible when the length counter is advanced past its index,
// and the atomic store/load pair on that counter orders the element
// write before any read that observed the new length.
type Journal[T any] struct {
	mu       sync.Mutex
	chunks   atomic.Pointer[[]*chunk[T]]
	length   atomic.Int64
	chunkCap int
}

// New creates an empty journal. chunkCap controls how many entries each
// storage chunk holds; values less than 1 fall back to
// DefaultChunkCapacity.
func New[T any](chunkCap int) *Journal[T] {
	if chunkCap < 1 {
		chunkCap = DefaultChunkCapacity
	}
	j := &Journal[T]{chunkCap: chunkCap}
	chunks := make([]*chunk[T], 0, 1)
	j.chunks.Store(&chunks)
	return j
}

// Append stores v at the next free index and returns that index.
// Indices are unique, contiguous, and start at 0. Safe for concurrent
// callers; concurrent appends are linearized by the internal mutex.
func (j *Journal[T]) Append(v T) int64 {
	j.mu.Lock()

	idx := j.length.Load()
	pos := int(idx) / j.chunkCap
	off := int(idx) % j.chunkCap

	chunks := *j.chunks.Load()
	if pos == len(chunks) {
		// Directory grows copy-on-write so readers holding the old
		// slice header are never invalidated mid-scan.
		next := make([]*chunk[T], len(chunks), len(chunks)+1)
		copy(next, chunks)
		next = append(next, &chunk[T]{entries: make([]T, j.chunkCap)})
		j.chunks.Store(&next)
		chunks = next
	}

	chunks[pos].entries[off] = v
	// Publish point: the element write above happens before this
	// increment, and Get orders its reads after observing it.
	j.length.Add(1)

	j.mu.Unlock()
	return idx
}

// Get returns the entry at index i, or false when i has not been
// published yet (or is negative). A true result is permanent: the same
// index returns the same value forever.
func (j *Journal[T]) Get(i int64) (T, bool) {
	if i < 0 || i >= j.length.Load() {
		var zero T
		return zero, false
	}
	chunks := *j.chunks.Load()
	c := chunks[int(i)/j.chunkCap]
	return c.entries[int(i)%j.chunkCap], true
}

// Len reports the number of published entries. The value is
// monotonically non-decreasing across calls from any single goroutine.
func (j *Journal[T]) Len() int64 {
	return j.length.Load()
}
