package chat

import (
	"time"

	"svasthya/domain"

	"github.com/jonboulle/clockwork"
)

// DefaultDebounce is how long a composing participant stays flagged
// after their last keystroke.
const DefaultDebounce = 1500 * time.Millisecond

// Entry identifies one (room, participant) typing slot.
type Entry struct {
	Room        domain.RoomID
	Participant string
}

// Tracker is the typing-indicator state machine. Each (room, participant)
// slot is either idle (absent) or composing (present with a deadline).
// A keystroke extends the deadline; Expire fires composing->idle once the
// deadline passes; Stop fires it immediately.
//
// The clock is injected so the debounce contract is testable without
// wall-clock waits. Tracker is not safe for concurrent use: the owning
// store serializes access.
type Tracker struct {
	clock    clockwork.Clock
	debounce time.Duration
	deadline map[Entry]time.Time
}

func NewTracker(clock clockwork.Clock, debounce time.Duration) *Tracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Tracker{
		clock:    clock,
		debounce: debounce,
		deadline: make(map[Entry]time.Time),
	}
}

// Keystroke moves the slot to composing, or extends its deadline when it
// already is. Returns true only on the idle->composing transition, so the
// caller can emit a single start event per burst instead of one per key.
func (t *Tracker) Keystroke(room domain.RoomID, participant string) bool {
	e := Entry{Room: room, Participant: participant}
	_, composing := t.deadline[e]
	t.deadline[e] = t.clock.Now().Add(t.debounce)
	return !composing
}

// Stop clears the slot immediately. Returns true if it was composing.
func (t *Tracker) Stop(room domain.RoomID, participant string) bool {
	e := Entry{Room: room, Participant: participant}
	if _, composing := t.deadline[e]; !composing {
		return false
	}
	delete(t.deadline, e)
	return true
}

// Expire fires the composing->idle transition for every slot whose
// deadline has passed and returns those entries, each exactly once.
func (t *Tracker) Expire(now time.Time) []Entry {
	var expired []Entry
	for e, deadline := range t.deadline {
		if !deadline.After(now) {
			expired = append(expired, e)
			delete(t.deadline, e)
		}
	}
	return expired
}

// Composing returns the participant ids currently flagged for the room.
func (t *Tracker) Composing(room domain.RoomID) []string {
	var ids []string
	for e := range t.deadline {
		if e.Room == room {
			ids = append(ids, e.Participant)
		}
	}
	return ids
}
