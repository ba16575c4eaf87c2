// Package events publishes profile lifecycle notifications for other
// services. Publishing is best effort: callers log failures and go on.
package events

import (
	"context"
	"time"
)

const (
	ProfileCreated = "profile.created"
	ProfileUpdated = "profile.updated"
)

// Event is the JSON body sent to the broker. Type doubles as the routing key.
type Event struct {
	Type       string    `json:"type"`
	UID        string    `json:"uid"`
	Email      string    `json:"email,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type noopPublisher struct{}

// NewNoop returns a Publisher that drops every event. The server uses it
// when no broker URL is configured.
func NewNoop() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }
