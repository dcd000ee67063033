package devlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/tracelight/tracelight/pkg/registry"
)

const sinkTestPrefix = "devlog:sink_test"

func TestSink_WritesEntryWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf})
	sink := NewSink(logger)

	sink.HandleEntry(&registry.Entry{
		Channel: "http",
		Message: "request ready",
		Data:    json.RawMessage(`{"id":7}`),
		Level:   slog.LevelWarn,
		Stack:   []byte("goroutine 1 [running]"),
	})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("%s - decode log record %q: %v", sinkTestPrefix, buf.String(), err)
	}
	if record["msg"] != "request ready" {
		t.Errorf("%s - msg = %v, want request ready", sinkTestPrefix, record["msg"])
	}
	if record["channel"] != "http" {
		t.Errorf("%s - channel = %v, want http", sinkTestPrefix, record["channel"])
	}
	if record["level"] != "WARN" {
		t.Errorf("%s - level = %v, want WARN", sinkTestPrefix, record["level"])
	}
	if record["data"] != `{"id":7}` {
		t.Errorf("%s - data = %v, want {\"id\":7}", sinkTestPrefix, record["data"])
	}
	if !strings.Contains(record["stack"].(string), "goroutine") {
		t.Errorf("%s - stack = %v, want captured stack", sinkTestPrefix, record["stack"])
	}
}

func TestSink_OmitsAbsentFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf})
	sink := NewSink(logger)

	sink.HandleEntry(&registry.Entry{Channel: "storage", Message: "hit"})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("%s - decode log record: %v", sinkTestPrefix, err)
	}
	if _, ok := record["data"]; ok {
		t.Errorf("%s - data attr present without a payload", sinkTestPrefix)
	}
	if _, ok := record["stack"]; ok {
		t.Errorf("%s - stack attr present without capture", sinkTestPrefix)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("%s - ParseLevel(%q) = %v, want %v", sinkTestPrefix, tc.in, got, tc.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Errorf("%s - ParseFormat(json) != FormatJSON", sinkTestPrefix)
	}
	if ParseFormat("anything") != FormatText {
		t.Errorf("%s - ParseFormat fallback != FormatText", sinkTestPrefix)
	}
}
