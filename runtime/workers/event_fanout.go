package workers

import (
	"context"
	"log/slog"

	"svasthya/contract"
	"svasthya/domain/event"
)

// EventFanout drains the store's outbound event stream and delivers
// each event to the global sinks plus the sinks of the participants
// subscribed to the event's room.
//
// Delivery is best effort: a failing sink is logged and skipped, it
// never blocks the stream or the other sinks.
type EventFanout struct {
	log      *slog.Logger
	events   <-chan event.DomainEvent
	registry contract.IRegistry
	sinks    []contract.EventSink
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent,
	registry contract.IRegistry) *EventFanout {
	return &EventFanout{log: log, events: events, registry: registry}
}

// Add appends global sinks that receive every event regardless of room.
func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("context done, stopping event fanout")
			return nil
		}
	}
}

func (w *EventFanout) fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		if err := sink.Consume(ctx, evt); err != nil {
			w.log.Warn("sink rejected event", "error", err)
		}
	}
	if w.registry == nil {
		return
	}
	for _, sink := range w.registry.GetSinksForRoom(evt.RoomID()) {
		if err := sink.Consume(ctx, evt); err != nil {
			w.log.Warn("room sink rejected event", "room", evt.RoomID(), "error", err)
		}
	}
}
