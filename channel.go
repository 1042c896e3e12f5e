package replay

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/replay/internal/journal"
	"github.com/dmitrymomot/replay/internal/signal"
)

// Channel is the root of a replay broadcast stream. It owns the shared
// message journal and the wake-up signal, and hands out Sender and
// Receiver handles that reference them. The journal lives as long as
// any handle does; there is no explicit teardown beyond Close, which
// only marks the stream finished.
//
// Example:
//
//	ch := replay.New[string](
//	    replay.WithName("audit"),
//	    replay.WithLogger(logger),
//	)
//	defer ch.Close()
type Channel[T any] struct {
	name   string
	logger *slog.Logger

	journal *journal.Journal[T]
	signal  *signal.Broadcaster
	metrics *channelMetrics

	// mu orders sends against Close: senders append under the read
	// lock, Close flips the flag under the write lock, so the journal
	// length is final once done is observed closed.
	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	sent      atomic.Int64
	delivered atomic.Int64
	receivers atomic.Int64
}

// Option configures a Channel.
type Option func(*config)

type config struct {
	name     string
	logger   *slog.Logger
	chunkCap int
}

// WithName sets the channel name used in log attributes and metric
// attributes. Default is "replay".
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger configures structured logging for channel operations.
// Default is a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithChunkCapacity sets the number of messages per journal storage
// chunk. Larger chunks mean fewer allocations on the send path at the
// cost of a coarser allocation granularity. Non-positive values are
// ignored.
func WithChunkCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkCap = n
		}
	}
}

// New creates an empty replay channel for messages of type T.
//
// Example:
//
//	ch := replay.New[int]()
//	defer ch.Close()
func New[T any](opts ...Option) *Channel[T] {
	cfg := &config{
		name:   "replay",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ch := &Channel[T]{
		name:    cfg.name,
		logger:  cfg.logger,
		journal: journal.New[T](cfg.chunkCap),
		signal:  signal.New(),
		done:    make(chan struct{}),
	}
	ch.metrics = newChannelMetrics(cfg.name, cfg.logger, ch.receivers.Load)
	return ch
}

// Sender returns a new sender handle. Handles are cheap, shareable
// across goroutines, and all append to the same journal in one total
// order.
func (c *Channel[T]) Sender() *Sender[T] {
	return &Sender[T]{channel: c}
}

// Receiver returns a new receiver positioned at the beginning of
// history. Creation never blocks and performs no eager replay; history
// is delivered lazily by Receive. Each call yields an independent
// receiver with its own cursor.
func (c *Channel[T]) Receiver() *Receiver[T] {
	r := newReceiver(c)
	n := c.receivers.Add(1)
	c.logger.Debug("receiver created",
		slog.String("channel", c.name),
		slog.String("receiver_id", r.id.String()),
		slog.Int64("receivers", n),
		slog.Int64("backlog", c.journal.Len()))
	return r
}

// Len reports how many messages have been sent on the channel so far.
func (c *Channel[T]) Len() int {
	return int(c.journal.Len())
}

// Close marks the channel as finished and wakes every blocked receiver.
// After Close, Send fails with ErrChannelClosed and receivers observe
// ErrChannelClosed once they have drained the remaining history.
// Calling Close again returns ErrChannelClosed.
func (c *Channel[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	c.closed = true
	close(c.done)
	c.logger.Info("replay channel closed",
		slog.String("channel", c.name),
		slog.Int64("messages", c.journal.Len()),
		slog.Int64("receivers", c.receivers.Load()))
	return nil
}

// send appends v and wakes waiting receivers. Shared by every Sender
// handle of this channel.
func (c *Channel[T]) send(v T) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrChannelClosed
	}
	idx := c.journal.Append(v)
	c.mu.RUnlock()

	c.sent.Add(1)
	c.signal.Broadcast()
	c.metrics.addSent(1)
	c.logger.Debug("message sent",
		slog.String("channel", c.name),
		slog.Int64("index", idx))
	return nil
}
