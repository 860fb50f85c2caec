package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs every published, dropped and panicking event.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		logEvent(logger.Debug(), event, payload).Msg("event fired")
	})

	bus.OnDrop(func(event Event, payload any) {
		logEvent(logger.Warn(), event, payload).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, payload any, recovered any) {
		logEvent(logger.Error(), event, payload).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func logEvent(e *zerolog.Event, event Event, payload any) *zerolog.Event {
	e = e.Str("event", string(event))
	switch p := payload.(type) {
	case TaskCreatedPayload:
		e = e.Str("task_id", p.Task.ID)
	case TaskUpdatedPayload:
		e = e.Str("task_id", p.Task.ID)
	case TaskDeletedPayload:
		e = e.Str("task_id", p.Task.ID)
	case TasksLoadedPayload:
		e = e.Str("user_id", p.OwnerID).Int("count", len(p.Tasks))
	}
	return e
}
