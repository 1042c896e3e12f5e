package replay

// Sender is a shareable handle for publishing messages to a channel.
// Any number of Sender handles may exist; they all append to the same
// journal and their sends are linearized into the single total order
// every receiver observes. A Sender is safe for concurrent use.
type Sender[T any] struct {
	channel *Channel[T]
}

// Send appends v to the channel's history and wakes every receiver
// currently waiting for new messages. Send never blocks on receivers:
// it succeeds as soon as the append completes, regardless of how far
// behind any receiver is. It fails only with ErrChannelClosed after the
// channel has been closed.
func (s *Sender[T]) Send(v T) error {
	return s.channel.send(v)
}

// Receiver returns a new receiver on the sender's channel, positioned
// at the beginning of history. Equivalent to Channel.Receiver.
func (s *Sender[T]) Receiver() *Receiver[T] {
	return s.channel.Receiver()
}
