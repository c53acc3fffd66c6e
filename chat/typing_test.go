package chat

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestTracker_DebounceExtendsOnEveryKeystroke(t *testing.T) {
	req := require.New(t)
	clock := clockwork.NewFakeClock()
	tracker := NewTracker(clock, DefaultDebounce)

	req.True(tracker.Keystroke("group-1", "user-1"), "first keystroke starts composing")
	req.False(tracker.Keystroke("group-1", "user-1"), "further keystrokes do not restart")

	// 1s later another keystroke resets the deadline
	clock.Advance(1 * time.Second)
	req.False(tracker.Keystroke("group-1", "user-1"))

	// 1s after that, the original deadline is past but the extended one is not
	clock.Advance(1 * time.Second)
	req.Empty(tracker.Expire(clock.Now()))
	req.Equal([]string{"user-1"}, tracker.Composing("group-1"))

	// 0.5s more crosses the extended deadline: exactly one expiry
	clock.Advance(500 * time.Millisecond)
	expired := tracker.Expire(clock.Now())
	req.Equal([]Entry{{Room: "group-1", Participant: "user-1"}}, expired)
	req.Empty(tracker.Expire(clock.Now()), "expiry fires exactly once")
	req.Empty(tracker.Composing("group-1"))
}

func TestTracker_StopIsImmediateAndIdempotent(t *testing.T) {
	req := require.New(t)
	clock := clockwork.NewFakeClock()
	tracker := NewTracker(clock, DefaultDebounce)

	tracker.Keystroke("group-1", "user-1")
	req.True(tracker.Stop("group-1", "user-1"))
	req.False(tracker.Stop("group-1", "user-1"), "second stop is a no-op")

	// No stale entry is ever expired later
	clock.Advance(10 * time.Second)
	req.Empty(tracker.Expire(clock.Now()))
}

func TestTracker_SlotsAreIndependentPerRoomAndParticipant(t *testing.T) {
	req := require.New(t)
	clock := clockwork.NewFakeClock()
	tracker := NewTracker(clock, DefaultDebounce)

	tracker.Keystroke("group-1", "user-1")
	tracker.Keystroke("group-1", "user-2")
	tracker.Keystroke("group-2", "user-1")

	req.ElementsMatch([]string{"user-1", "user-2"}, tracker.Composing("group-1"))
	req.Equal([]string{"user-1"}, tracker.Composing("group-2"))

	tracker.Stop("group-1", "user-1")
	req.Equal([]string{"user-2"}, tracker.Composing("group-1"))
	req.Equal([]string{"user-1"}, tracker.Composing("group-2"), "other rooms untouched")
}
