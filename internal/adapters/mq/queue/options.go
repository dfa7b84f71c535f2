package queue

// Option applies a configuration option to the PageQueue.
type Option func(*PageQueue)

// WithCapacity sets how many pages may wait before Send blocks.
func WithCapacity(capacity int) Option {
	return func(q *PageQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
