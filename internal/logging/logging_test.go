package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})
	log.With(String("scenario", "apophis")).Info(context.Background(), "analysis done",
		String("analysis", "moid"), Int("warnings", 2), Float("moid_au", 0.0003), Err(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if rec["msg"] != "analysis done" || rec["scenario"] != "apophis" || rec["analysis"] != "moid" {
		t.Errorf("unexpected record %v", rec)
	}
	if rec["warnings"] != float64(2) || rec["error"] != "boom" {
		t.Errorf("unexpected fields %v", rec)
	}
}

func TestLevelFilter(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		warn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"", false, true},
		{"warning", false, true},
		{"error", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: tt.level, Output: &buf})
			log.Debug(context.Background(), "dbg")
			log.Warn(context.Background(), "wrn")
			out := buf.String()
			if strings.Contains(out, "dbg") != tt.debug || strings.Contains(out, "wrn") != tt.warn {
				t.Errorf("level %q: unexpected output %q", tt.level, out)
			}
		})
	}
}

func TestRunContext(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	if len(id) != 36 {
		t.Errorf("expected a uuid, got %q", id)
	}
	if _, again := EnsureRunID(ctx); again != id {
		t.Error("run id should be stable once set")
	}

	var buf bytes.Buffer
	_, log := WithRunLogger(ctx, New(Config{Format: "json", Output: &buf}))
	ctx = ContextWithLogger(ctx, log)
	FromContext(ctx).Info(ctx, "hello")
	if !strings.Contains(buf.String(), id) {
		t.Errorf("run id missing from %q", buf.String())
	}

	FromContext(context.Background()).Error(context.Background(), "dropped")
}
