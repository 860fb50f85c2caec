package eventbus

import "github.com/colonyops/taskboard/internal/core/task"

var _ task.Observer = (*EventBus)(nil)

// TasksLoaded implements task.Observer.
func (bus *EventBus) TasksLoaded(ownerID string, tasks []task.Task) {
	bus.PublishTasksLoaded(TasksLoadedPayload{OwnerID: ownerID, Tasks: tasks})
}

// TaskCreated implements task.Observer.
func (bus *EventBus) TaskCreated(t task.Task) {
	bus.PublishTaskCreated(TaskCreatedPayload{Task: t})
}

// TaskUpdated implements task.Observer.
func (bus *EventBus) TaskUpdated(t task.Task) {
	bus.PublishTaskUpdated(TaskUpdatedPayload{Task: t})
}

// TaskDeleted implements task.Observer.
func (bus *EventBus) TaskDeleted(t task.Task) {
	bus.PublishTaskDeleted(TaskDeletedPayload{Task: t})
}
