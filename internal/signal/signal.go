// Package signal provides the wake-up primitive that bridges appends to
// blocked receivers. It is a broadcast-only edge trigger: every waiter
// parked on the current generation is released at once, and each waiter
// re-checks its own condition after waking.
package signal

import "sync/atomic"

// Broadcaster hands out a per-generation channel that is closed on the
// next Broadcast call. Closing a channel wakes every goroutine selecting
// on it, which makes one Broadcast equivalent to a notify-all.
//
// Lost-wakeup protocol for callers: load the generation channel with
// Ready FIRST, then re-check the guarded condition, then select on the
// channel. A notification racing with registration either makes the
// condition true before the re-check or closes the very channel the
// caller already holds.
type Broadcaster struct {
	gen atomic.Pointer[chan struct{}]
}

// New creates a Broadcaster with an open first generation.
func New() *Broadcaster {
	ch := make(chan struct{})
	b := &Broadcaster{}
	b.gen.Store(&ch)
	return b
}

// Ready returns the current generation channel. It is closed by the
// next Broadcast; after waking, callers must obtain a fresh channel
// before waiting again.
func (b *Broadcaster) Ready() <-chan struct{} {
	return *b.gen.Load()
}

// Broadcast wakes every goroutine waiting on the current generation by
// swapping in a fresh channel and closing the previous one. Safe for
// concurrent callers: the atomic swap guarantees each generation is
// closed exactly once.
func (b *Broadcaster) Broadcast() {
	next := make(chan struct{})
	prev := b.gen.Swap(&next)
	close(*prev)
}
