package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

type typingStore interface {
	SweepTyping(now time.Time)
}

// TypingSweeper periodically expires composing indicators whose
// debounce deadline has passed.
type TypingSweeper struct {
	log      *slog.Logger
	clock    clockwork.Clock
	interval time.Duration
	store    typingStore
}

func NewTypingSweeper(log *slog.Logger, clock clockwork.Clock,
	interval time.Duration, store typingStore) *TypingSweeper {
	return &TypingSweeper{log: log, clock: clock, interval: interval, store: store}
}

func (w *TypingSweeper) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context done, stopping typing sweeper")
			return nil
		case now := <-ticker.Chan():
			w.store.SweepTyping(now)
		}
	}
}
