package replay

import (
	"context"

	"github.com/google/uuid"
)

// Receiver is one subscriber's sequential view over the channel's full
// history followed by its live tail. The cursor starts at index 0, so
// the first Receive calls replay everything sent before the receiver
// existed, in order, before new messages start arriving.
//
// A Receiver belongs to a single consumer: its methods must not be
// called concurrently. Create one receiver per consuming goroutine.
type Receiver[T any] struct {
	id      uuid.UUID
	channel *Channel[T]
	cursor  int64
}

func newReceiver[T any](c *Channel[T]) *Receiver[T] {
	return &Receiver[T]{id: uuid.New(), channel: c}
}

// Receive returns the next message in order, blocking until one is
// available. The n-th successful call returns exactly the n-th message
// ever sent on the channel, with no gaps or duplicates, regardless of
// when the receiver was created.
//
// When the cursor has caught up with history, Receive suspends without
// holding any lock until a send occurs, the channel is closed, or ctx
// ends. Context cancellation returns ctx.Err() and leaves the cursor
// untouched, so the same message is delivered by the next call; a
// deadline on ctx therefore serves as a timed receive. Once the channel
// is closed and the remaining history is drained, Receive returns
// ErrChannelClosed.
func (r *Receiver[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	c := r.channel

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	for {
		if v, ok := c.journal.Get(r.cursor); ok {
			r.cursor++
			c.delivered.Add(1)
			c.metrics.addReceived(1)
			return v, nil
		}

		// Register-then-recheck: grab the wake-up channel before the
		// length check so a send racing with suspension either bumps
		// the length we re-read or closes the channel we wait on.
		ready := c.signal.Ready()
		if c.journal.Len() > r.cursor {
			continue
		}

		select {
		case <-ready:
		case <-c.done:
			// Closed. The length is final once done is observed, but a
			// send may have landed just before Close won the race.
			if c.journal.Len() > r.cursor {
				continue
			}
			return zero, ErrChannelClosed
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// TryReceive returns the next message without blocking. The second
// result is false when the cursor has caught up with history; the
// cursor is not advanced in that case and a later call will retry the
// same position.
func (r *Receiver[T]) TryReceive() (T, bool) {
	v, ok := r.channel.journal.Get(r.cursor)
	if !ok {
		var zero T
		return zero, false
	}
	r.cursor++
	r.channel.delivered.Add(1)
	r.channel.metrics.addReceived(1)
	return v, true
}

// Pos reports the cursor position: the index of the next unread
// message, which equals the number of messages consumed so far.
func (r *Receiver[T]) Pos() int64 {
	return r.cursor
}

// Stream bridges the receiver to a Go channel. It spawns a goroutine
// that pumps Receive into the returned channel until ctx ends or the
// replay channel is closed and drained, then closes it. The receiver
// must not be used directly while the stream is active.
//
// Example:
//
//	for msg := range recv.Stream(ctx) {
//	    process(msg)
//	}
func (r *Receiver[T]) Stream(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			v, err := r.Receive(ctx)
			if err != nil {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
