// Package projection builds local timelines from observed events.
// Handles ordering and deduplication. Does not emit events or interact
// with the UI directly.
package projection

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"svasthya/domain"
	"svasthya/domain/event"
)

// Timeline is a read model of one room's messages, rebuilt from the
// event stream. Duplicate deliveries of the same message are dropped
// and messages are kept in chronological order even when events arrive
// out of order.
type Timeline struct {
	Room     domain.RoomID
	Messages []domain.Message
	seen     map[uuid.UUID]struct{}
}

func NewTimeline(room domain.RoomID) *Timeline {
	return &Timeline{Room: room, seen: make(map[uuid.UUID]struct{})}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessagePosted)
	if !ok || evt.Room != t.Room {
		return nil
	}
	if _, dup := t.seen[evt.ID]; dup {
		return nil
	}
	t.seen[evt.ID] = struct{}{}

	t.Messages = append(t.Messages, evt.Message)
	// Late arrivals are rare, a single swap pass usually suffices.
	sort.SliceStable(t.Messages, func(i, j int) bool {
		return t.Messages[i].CreatedAt.Before(t.Messages[j].CreatedAt)
	})
	return nil
}

// Len reports how many distinct messages the timeline holds.
func (t *Timeline) Len() int { return len(t.Messages) }
