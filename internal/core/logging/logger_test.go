package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("test-component")
	logger.Info().Msg("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	component, ok := logEntry["component"]
	if !ok {
		t.Fatal("expected 'component' key in log output")
	}

	if component != "test-component" {
		t.Errorf("Component() component = %q, want %q", component, "test-component")
	}

	msg, ok := logEntry["message"]
	if !ok {
		t.Fatal("expected 'message' key in log output")
	}

	if msg != "test message" {
		t.Errorf("Component() message = %q, want %q", msg, "test message")
	}
}
