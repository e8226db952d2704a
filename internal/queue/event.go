// Package queue carries catalog change notifications over RabbitMQ.  Writes
// to movies, cinemas, halls, sessions, genres and tickets publish a
// CatalogChangedEvent; the consumer reacts by dropping cached pages.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogQueue is the durable queue catalog events are routed to.
const CatalogQueue = "catalog.changed"

// Actions carried in CatalogChangedEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CatalogChangedEvent is published after a committed catalog write.  It
// carries identifiers only; consumers re-read what they need.
type CatalogChangedEvent struct {
	EventID    string `json:"event_id"`
	Entity     string `json:"entity"`
	ID         uint64 `json:"id"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at"`
}

// NewCatalogChanged stamps an event with a fresh id and the current UTC
// time.
func NewCatalogChanged(entity string, id uint64, action string) CatalogChangedEvent {
	return CatalogChangedEvent{
		EventID:    uuid.NewString(),
		Entity:     entity,
		ID:         id,
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// decodeEvent parses a delivery body and rejects events without an entity.
func decodeEvent(body []byte) (CatalogChangedEvent, error) {
	var ev CatalogChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Entity == "" {
		return ev, fmt.Errorf("event %q has no entity", ev.EventID)
	}
	return ev, nil
}
