package queue

import "context"

// Queue moves opaque job payloads from producers to workers.
// Delivery is at most once: messages are acknowledged on receipt and never retried.
type Queue interface {
	Publish(ctx context.Context, payload []byte) error
	// Subscribe returns a channel that is closed when ctx is cancelled or the queue is closed.
	Subscribe(ctx context.Context) (<-chan []byte, error)
	Close() error
}
