package queue

import "errors"

// Sentinel kinds for send failures.
var (
	ErrClosed       = errors.New("queue closed")
	ErrConsumerGone = errors.New("queue consumer gone")
)
