package replay

// Stats is a point-in-time snapshot of channel counters for
// observability and debugging.
type Stats struct {
	// TotalMessages is the number of messages ever sent on the channel.
	TotalMessages int64

	// Delivered is the total number of successful receives summed over
	// all receivers (one message delivered to three receivers counts
	// three times).
	Delivered int64

	// Receivers is the number of receivers ever created on the channel.
	Receivers int64

	// Closed reports whether Close has been called.
	Closed bool
}

// Stats returns current channel statistics. Counters are read
// atomically but the snapshot as a whole is not; fields may be
// mutually inconsistent under concurrent load.
func (c *Channel[T]) Stats() Stats {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()

	return Stats{
		TotalMessages: c.sent.Load(),
		Delivered:     c.delivered.Load(),
		Receivers:     c.receivers.Load(),
		Closed:        closed,
	}
}
