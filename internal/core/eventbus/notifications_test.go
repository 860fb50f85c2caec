package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/eventbus"
	"github.com/colonyops/taskboard/internal/core/eventbus/testbus"
	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/task"
)

func latestNotificationPayload(tb *testbus.Bus, t *testing.T) eventbus.NotificationPublishedPayload {
	t.Helper()
	tb.AssertPublished(t, eventbus.EventNotificationPublished)

	payloads := tb.Payloads(eventbus.EventNotificationPublished)
	require.NotEmpty(t, payloads)
	p, ok := payloads[len(payloads)-1].(eventbus.NotificationPublishedPayload)
	require.True(t, ok)
	return p
}

func TestNotificationRouter_TaskCreated(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: task.Task{ID: "a", Text: "water plants"}})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelInfo, p.Level)
	assert.Contains(t, p.Message, "water plants")
}

func TestNotificationRouter_TaskUpdated(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		want      string
	}{
		{"completed", true, "completed"},
		{"reopened", false, "updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := testbus.New(t)
			eventbus.NewNotificationRouter(tb.EventBus).Register()

			tb.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: task.Task{ID: "a", Text: "pay rent", Completed: tt.completed}})
			p := latestNotificationPayload(tb, t)

			assert.Equal(t, notify.LevelInfo, p.Level)
			assert.Contains(t, p.Message, tt.want)
			assert.Contains(t, p.Message, "pay rent")
		})
	}
}

func TestNotificationRouter_TaskDeleted(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTaskDeleted(eventbus.TaskDeletedPayload{Task: task.Task{ID: "a", Text: "old chore"}})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelInfo, p.Level)
	assert.Contains(t, p.Message, "old chore")
}

func TestNotificationRouter_TasksLoaded_warnsOnOverdue(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTasksLoaded(eventbus.TasksLoadedPayload{
		OwnerID: "u1",
		Tasks: []task.Task{
			{ID: "a", DueDate: "2000-01-01", DueTime: "09:00"},
			{ID: "b", DueDate: "2000-01-02", DueTime: "09:00", Completed: true},
			{ID: "c", DueDate: "2999-01-01", DueTime: "09:00"},
		},
	})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelWarning, p.Level)
	assert.Equal(t, "1 overdue task", p.Message)
}

func TestNotificationRouter_TasksLoaded_nothingOverdue(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTasksLoaded(eventbus.TasksLoadedPayload{
		OwnerID: "u1",
		Tasks:   []task.Task{{ID: "c", DueDate: "2999-01-01", DueTime: "09:00"}},
	})

	tb.AssertPublished(t, eventbus.EventTasksLoaded)
	tb.AssertNotPublished(t, eventbus.EventNotificationPublished, 50*time.Millisecond)
}
