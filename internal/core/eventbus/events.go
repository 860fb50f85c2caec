package eventbus

import (
	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/task"
)

// Keep list sorted A-Z.
const (
	EventNotificationPublished Event = "notification.published"
	EventTaskCreated           Event = "task.created"
	EventTaskDeleted           Event = "task.deleted"
	EventTaskUpdated           Event = "task.updated"
	EventTasksLoaded           Event = "task.loaded"
)

// TasksLoadedPayload is emitted after a successful Load replaced local state.
type TasksLoadedPayload struct {
	OwnerID string
	Tasks   []task.Task
}

// TaskCreatedPayload is emitted after a task was persisted and added locally.
type TaskCreatedPayload struct {
	Task task.Task
}

// TaskUpdatedPayload is emitted after an edit or completion toggle.
type TaskUpdatedPayload struct {
	Task task.Task
}

// TaskDeletedPayload is emitted after a task was removed remotely and locally.
type TaskDeletedPayload struct {
	Task task.Task
}

// NotificationPublishedPayload carries a user-facing notification.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}

func (bus *EventBus) PublishTasksLoaded(p TasksLoadedPayload) { bus.send(EventTasksLoaded, p) }

func (bus *EventBus) SubscribeTasksLoaded(fn func(TasksLoadedPayload)) {
	bus.subscribe(EventTasksLoaded, func(p any) { fn(p.(TasksLoadedPayload)) })
}

func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) { bus.send(EventTaskCreated, p) }

func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	bus.subscribe(EventTaskCreated, func(p any) { fn(p.(TaskCreatedPayload)) })
}

func (bus *EventBus) PublishTaskUpdated(p TaskUpdatedPayload) { bus.send(EventTaskUpdated, p) }

func (bus *EventBus) SubscribeTaskUpdated(fn func(TaskUpdatedPayload)) {
	bus.subscribe(EventTaskUpdated, func(p any) { fn(p.(TaskUpdatedPayload)) })
}

func (bus *EventBus) PublishTaskDeleted(p TaskDeletedPayload) { bus.send(EventTaskDeleted, p) }

func (bus *EventBus) SubscribeTaskDeleted(fn func(TaskDeletedPayload)) {
	bus.subscribe(EventTaskDeleted, func(p any) { fn(p.(TaskDeletedPayload)) })
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}
