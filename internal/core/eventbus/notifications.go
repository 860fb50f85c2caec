package eventbus

import (
	"fmt"
	"time"

	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/task"
)

// NotificationRouter maps task events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
	now func() time.Time
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus, now: time.Now}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeTasksLoaded(func(p TasksLoadedPayload) {
		now := r.now()
		overdue := 0
		for _, t := range p.Tasks {
			if t.Overdue(now) {
				overdue++
			}
		}
		if overdue > 0 {
			r.notifyf(notify.LevelWarning, "%d overdue %s", overdue, plural(overdue, "task", "tasks"))
		}
	})

	r.bus.SubscribeTaskCreated(func(p TaskCreatedPayload) {
		r.notifyf(notify.LevelInfo, "added %q", p.Task.Text)
	})

	r.bus.SubscribeTaskUpdated(func(p TaskUpdatedPayload) {
		r.notifyf(notify.LevelInfo, "%s %q", updateVerb(p.Task), p.Task.Text)
	})

	r.bus.SubscribeTaskDeleted(func(p TaskDeletedPayload) {
		r.notifyf(notify.LevelInfo, "deleted %q", p.Task.Text)
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

func updateVerb(t task.Task) string {
	if t.Completed {
		return "completed"
	}
	return "updated"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
