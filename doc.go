// Package replay provides a broadcast channel where every receiver sees
// the full message history before going live.
//
// A single logical sender publishes an ordered stream of messages; any
// number of receivers consume it independently. A receiver created
// after N messages were sent still observes all N of them, in order,
// and then transitions seamlessly to messages sent after its creation.
// Receivers never coordinate with each other and never apply
// backpressure to the sender.
//
// # Architecture
//
// Three pieces compose the channel:
//
//   - an append-only journal holding every message ever sent, shared by
//     all handles (messages are written once and never mutated)
//   - a private cursor per receiver marking its next unread index,
//     always starting at 0
//   - a broadcast signal that wakes blocked receivers whenever a new
//     message is appended
//
// Send appends to the journal and fires the signal; Receive reads the
// journal at the cursor, suspending on the signal only when the cursor
// has caught up with the tail.
//
// # Usage
//
//	ch := replay.New[string]()
//	defer ch.Close()
//
//	sender := ch.Sender()
//	sender.Send("message 1")
//	sender.Send("message 2")
//
//	recv := ch.Receiver()
//	msg, _ := recv.Receive(ctx) // "message 1"
//	msg, _ = recv.Receive(ctx)  // "message 2"
//
//	// A late receiver replays history before tailing new messages.
//	late := ch.Receiver()
//	msg, _ = late.Receive(ctx) // "message 1"
//
// # Blocking and cancellation
//
// Receive takes a context and blocks the calling goroutine until the
// next message is available. With context.Background() it blocks
// indefinitely; with a deadline or cancellation it returns ctx.Err()
// without consuming anything, so the same message is returned by the
// next call. TryReceive is the non-blocking probe.
//
// # Shutdown
//
// Close marks the channel closed and wakes every blocked receiver.
// Subsequent sends fail with ErrChannelClosed; receivers drain whatever
// history remains and then get ErrChannelClosed once they reach the
// end. Without Close, a receiver that has caught up waits until the
// next send or its context ends.
//
// # Memory
//
// The full-replay guarantee requires retaining every message for the
// lifetime of the channel. Memory growth is therefore bounded by the
// caller: either bound the number of messages sent, or discard the
// channel when the stream is complete. There is no eviction.
//
// # Thread safety
//
// Channel and Sender are safe for concurrent use; sends from multiple
// goroutines are linearized into one total order observed identically
// by all receivers. A Receiver is owned by one consumer: its methods
// must not be called concurrently with each other (create one receiver
// per consuming goroutine instead, which is cheap).
//
// # Observability
//
// Operations are counted on the global OpenTelemetry meter (a no-op
// unless an SDK is configured) and optionally logged through a
// slog.Logger supplied with WithLogger. Stats returns a point-in-time
// snapshot of channel counters.
package replay
