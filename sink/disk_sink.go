package sink

import (
	"context"
	"log/slog"

	"svasthya/domain/event"
	"svasthya/repositories"
)

// DiskSink persists every posted message to the transcript store.
// Other event kinds are ignored.
type DiskSink struct {
	repository repositories.ITranscriptRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.ITranscriptRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		return d.repository.StoreMessage(repositories.FromMessage(evt.Room, evt.Message))
	default:
		return nil
	}
}
