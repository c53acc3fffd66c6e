package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"svasthya/domain"
	"svasthya/domain/event"
)

type fakeSink struct {
	name string
}

func (s *fakeSink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistrySubscribeSingleParticipant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	roomID := domain.RoomID("group-1")
	sink := &fakeSink{name: "user-1"}

	req.Empty(registry.GetSinksForRoom(roomID))

	registry.Subscribe("user-1", roomID, sink)

	sinks := registry.GetSinksForRoom(roomID)
	req.Len(sinks, 1)
	req.Same(sink, sinks[0].(*fakeSink))
}

func TestRegistrySubscribeMultipleParticipants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	roomID := domain.RoomID("group-1")

	registry.Subscribe("user-1", roomID, &fakeSink{name: "user-1"})
	registry.Subscribe("user-2", roomID, &fakeSink{name: "user-2"})

	req.Len(registry.GetSinksForRoom(roomID), 2)
	req.Empty(registry.GetSinksForRoom("group-2"))
}

func TestRegistryParticipantInMultipleRooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := &fakeSink{name: "user-1"}

	registry.Subscribe("user-1", "group-1", sink)
	registry.Subscribe("user-1", "group-2", sink)

	req.Len(registry.GetSinksForRoom("group-1"), 1)
	req.Len(registry.GetSinksForRoom("group-2"), 1)
}

func TestRegistryUnsubscribe(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	roomID := domain.RoomID("group-1")

	registry.Subscribe("user-1", roomID, &fakeSink{name: "user-1"})
	registry.Subscribe("user-2", roomID, &fakeSink{name: "user-2"})

	registry.Unsubscribe("user-1", roomID)
	req.Len(registry.GetSinksForRoom(roomID), 1)

	registry.Unsubscribe("user-2", roomID)
	req.Empty(registry.GetSinksForRoom(roomID))

	// Unsubscribing an unknown participant is a no-op.
	registry.Unsubscribe("ghost", roomID)
}
