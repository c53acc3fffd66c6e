package runtime

import (
	"sync"

	"svasthya/contract"
	"svasthya/domain"
)

type memberSet map[string]struct{}

// Registry maps connected participants to their event sinks and tracks
// which room each participant is watching. A participant has a single
// sink regardless of how many rooms they belong to.
type Registry struct {
	mu          sync.RWMutex
	sinks       map[string]contract.EventSink
	roomMembers map[domain.RoomID]memberSet
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:       make(map[string]contract.EventSink),
		roomMembers: make(map[domain.RoomID]memberSet),
	}
}

// GetSinksForRoom resolves the sinks of every participant subscribed to
// the room. Returns nil for an unknown or empty room.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var active []contract.EventSink
	for participantID := range members {
		if sink, exists := r.sinks[participantID]; exists {
			active = append(active, sink)
		}
	}
	return active
}

// Subscribe registers a participant's sink and adds them to the room's
// membership set, initializing the set on first use.
func (r *Registry) Subscribe(participantID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[participantID] = sink
	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(memberSet)
	}
	r.roomMembers[roomID][participantID] = struct{}{}
}

// Unsubscribe removes the participant's sink and their room membership.
// Empty membership sets are dropped so the map does not grow forever.
func (r *Registry) Unsubscribe(participantID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sinks, participantID)
	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, participantID)
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}
