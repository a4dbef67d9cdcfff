package infra

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLoggerProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production")
	logger.Debug().Msg("hidden")
	logger.Info().Str("pose_id", "full-rear").Msg("batch: pose completed")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "batch: pose completed" {
		t.Fatalf("message = %v", entry["message"])
	}
	if entry["pose_id"] != "full-rear" {
		t.Fatalf("pose_id = %v", entry["pose_id"])
	}
}
