package eventbus_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/taskboard/internal/core/eventbus"
	"github.com/colonyops/taskboard/internal/core/eventbus/testbus"
	"github.com/colonyops/taskboard/internal/core/task"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	var buf bytes.Buffer
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.New(&buf).Level(zerolog.DebugLevel))

	tb.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: task.Task{ID: "t1", Text: "buy milk"}})
	tb.PublishTaskDeleted(eventbus.TaskDeletedPayload{Task: task.Task{ID: "t1"}})

	tb.AssertPublished(t, eventbus.EventTaskDeleted)
	assert.Contains(t, buf.String(), string(eventbus.EventTaskCreated))
}
