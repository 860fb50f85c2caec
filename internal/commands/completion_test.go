package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/app"
)

func TestTaskIDCompleter(t *testing.T) {
	a, flags := newTestApp(t)
	created := addTask(t, a, flags, "medium", "finish slides")

	var buf bytes.Buffer
	cmd := &cli.Command{Name: "taskboard", Writer: &buf}

	TaskIDCompleter(a)(context.Background(), cmd)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, created.ID+":finish slides", lines[0])
}

func TestTaskIDCompleter_UnopenedApp(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cli.Command{Name: "taskboard", Writer: &buf}

	TaskIDCompleter(&app.App{})(context.Background(), cmd)
	assert.Empty(t, buf.String())
}
