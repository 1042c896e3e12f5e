package replay

import "errors"

var (
	// ErrChannelClosed is returned by Send after Close, by Receive once
	// a closed channel's history is fully drained, and by a repeated
	// Close call.
	ErrChannelClosed = errors.New("replay channel is closed")
)
