package pubsub

import "context"

// ContinuousListener keeps one subscription open and hands out events one at
// a time.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to the broker. The subscription is
// released when ctx is cancelled.
func NewContinuousListener[T any](ctx context.Context, broker Subscriber[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Next blocks until the next event. It returns false once the context is
// cancelled or the broker is closed.
func (l *ContinuousListener[T]) Next() (Event[T], bool) {
	select {
	case <-l.ctx.Done():
		return Event[T]{}, false
	case event, ok := <-l.ch:
		return event, ok
	}
}

// Handle calls fn for every event until ctx is cancelled or the broker
// closes. It blocks; run it on its own goroutine.
func Handle[T any](ctx context.Context, broker Subscriber[T], fn func(Event[T])) {
	l := NewContinuousListener(ctx, broker)
	for {
		event, ok := l.Next()
		if !ok {
			return
		}
		fn(event)
	}
}
