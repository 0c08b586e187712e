package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	subs := []<-chan Event[int]{
		broker.Subscribe(context.Background()),
		broker.Subscribe(context.Background()),
	}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(AppliedEvent, 42)
	for _, ch := range subs {
		ev := receive(t, ch)
		require.Equal(t, AppliedEvent, ev.Type)
		require.Equal(t, 42, ev.Payload)
		require.False(t, ev.Timestamp.IsZero())
	}
}

func TestBroker_CancelledSubscriberIsRemoved(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_FullSubscriberDropsEvents(t *testing.T) {
	broker := NewBroker[int](WithBufferSize(1))
	defer broker.Close()
	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 3; i++ {
			broker.Publish(ResolvedEvent, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "Publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Zero(t, broker.SubscriberCount())

	_, ok = <-broker.Subscribe(context.Background())
	require.False(t, ok, "subscribe after close returns a closed channel")
	broker.Publish(SavedEvent, "ignored")
}

func TestBroker_ReplayDeliversLastEventToLateSubscriber(t *testing.T) {
	broker := NewBroker[string](WithReplay())
	defer broker.Close()

	broker.Publish(ResolvedEvent, "first")
	broker.Publish(InvalidatedEvent, "second")

	ev := receive(t, broker.Subscribe(context.Background()))
	require.Equal(t, InvalidatedEvent, ev.Type)
	require.Equal(t, "second", ev.Payload)
}

func TestBroker_NoReplayByDefault(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	broker.Publish(ResolvedEvent, "missed")
	ch := broker.Subscribe(context.Background())

	select {
	case <-ch:
		require.Fail(t, "no event should be replayed")
	case <-time.After(20 * time.Millisecond):
	}
}
