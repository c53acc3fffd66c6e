package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type recordingTypingStore struct {
	mu     sync.Mutex
	sweeps []time.Time
}

func (r *recordingTypingStore) SweepTyping(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps = append(r.sweeps, now)
}

func (r *recordingTypingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sweeps)
}

func TestTypingSweeperSweepsOnEachTick(t *testing.T) {
	req := require.New(t)
	clock := clockwork.NewFakeClock()
	store := &recordingTypingStore{}
	sweeper := NewTypingSweeper(slog.Default(), clock, time.Second, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	req.Eventually(func() bool { return store.count() == 1 },
		500*time.Millisecond, 5*time.Millisecond)

	clock.Advance(time.Second)
	req.Eventually(func() bool { return store.count() == 2 },
		500*time.Millisecond, 5*time.Millisecond)

	cancel()
	req.NoError(<-done)
}

func TestConnectionWorkerFlipsFlagAfterDelay(t *testing.T) {
	req := require.New(t)
	clock := clockwork.NewFakeClock()
	store := &recordingConnStore{}
	worker := NewConnectionWorker(slog.Default(), clock, 2*time.Second, store)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	req.NoError(<-done)
	req.True(store.connected)
}

func TestConnectionWorkerStopsOnCancel(t *testing.T) {
	req := require.New(t)
	clock := clockwork.NewFakeClock()
	store := &recordingConnStore{}
	worker := NewConnectionWorker(slog.Default(), clock, time.Hour, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	clock.BlockUntil(1)
	cancel()

	req.NoError(<-done)
	req.False(store.connected)
}

type recordingConnStore struct {
	connected bool
}

func (r *recordingConnStore) SetConnected(connected bool) { r.connected = connected }
