// Package pubsub provides a generic publish/subscribe event system used to
// announce configuration changes without tying publishers to listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LoggedEvent carries one log line to in-process listeners.
	LoggedEvent EventType = "logged"

	// ResolvedEvent follows a wholesale rebuild of the runtime model.
	ResolvedEvent EventType = "resolved"
	// AppliedEvent follows a push of resolved styles into a live store.
	AppliedEvent EventType = "applied"
	// SavedEvent follows a successful write of the persisted settings.
	SavedEvent EventType = "saved"
	// InvalidatedEvent follows a catalog or ambient default change.
	InvalidatedEvent EventType = "invalidated"
	// ClassificationsChangedEvent carries the enabled classification sets
	// after every resolve or save.
	ClassificationsChangedEvent EventType = "classifications_changed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
