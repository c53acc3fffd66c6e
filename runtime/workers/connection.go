package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

type connectionStore interface {
	SetConnected(connected bool)
}

// ConnectionWorker marks the backend link as established after a short
// startup delay, mirroring the handshake of a real transport. It runs
// once and exits.
type ConnectionWorker struct {
	log   *slog.Logger
	clock clockwork.Clock
	delay time.Duration
	store connectionStore
}

func NewConnectionWorker(log *slog.Logger, clock clockwork.Clock,
	delay time.Duration, store connectionStore) *ConnectionWorker {
	return &ConnectionWorker{log: log, clock: clock, delay: delay, store: store}
}

func (w *ConnectionWorker) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-w.clock.After(w.delay):
	}
	w.store.SetConnected(true)
	w.log.Info("connection established", "after", w.delay)
	return nil
}
