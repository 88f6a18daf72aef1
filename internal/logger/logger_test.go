package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf)

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("log() logged = %v, want %v", logged, tt.want)
			}
			if !logged {
				return
			}

			entries := decodeLines(t, &buf)
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			entry := entries[0]
			if entry["message"] != tt.message {
				t.Errorf("message = %v, want %v", entry["message"], tt.message)
			}
			if entry["level"] != string(tt.level) {
				t.Errorf("level = %v, want %v", entry["level"], tt.level)
			}
			if _, ok := entry["timestamp"]; !ok {
				t.Error("entry has no timestamp")
			}
			for k, v := range tt.fields {
				if entry[k] != v {
					t.Errorf("field %s = %v, want %v", k, entry[k], v)
				}
			}
			if tt.err != nil && entry["error"] != tt.err.Error() {
				t.Errorf("error = %v, want %v", entry["error"], tt.err)
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.minLevel, &buf).log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf))

	Debug("debug line", Fields{"n": 1})
	Info("info line", nil)
	Warn("warn line", nil)
	Error("error line", nil, errors.New("boom"))

	entries := decodeLines(t, &buf)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0]["n"] != float64(1) {
		t.Errorf("field n = %v, want 1", entries[0]["n"])
	}

	SetDefault(NewNop())
	Info("dropped", nil)
	if len(decodeLines(t, &buf)) != 4 {
		t.Error("nop logger wrote output")
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("profiles.fetched")
	m.IncrCounter("profiles.fetched")
	m.IncrCounter("profiles.fetched")

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	if counters["profiles.fetched"] != 3 {
		t.Errorf("Counter = %v, want 3", counters["profiles.fetched"])
	}

	m.Reset()
	counters = m.GetSnapshot()["counters"].(map[string]int64)
	if len(counters) != 0 {
		t.Errorf("counters after Reset() = %v", counters)
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("participants.total", 10)
	m.SetGauge("participants.total", 12)

	gauges := m.GetSnapshot()["gauges"].(map[string]float64)
	if gauges["participants.total"] != 12 {
		t.Errorf("Gauge = %v, want 12", gauges["participants.total"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("profile.fetch", 100*time.Millisecond)
	m.RecordTiming("profile.fetch", 200*time.Millisecond)
	m.RecordTiming("profile.fetch", 150*time.Millisecond)

	timings := m.GetSnapshot()["timings"].(map[string]map[string]interface{})
	fetch := timings["profile.fetch"]

	if fetch["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", fetch["count"])
	}
	if fetch["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", fetch["min"])
	}
	if fetch["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", fetch["max"])
	}
	if fetch["average"].(string) != "150ms" {
		t.Errorf("Average timing = %v, want 150ms", fetch["average"])
	}
}

func TestPackageLevelMetrics(t *testing.T) {
	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	snapshot := GetMetricsSnapshot()
	if snapshot == nil {
		t.Fatal("GetMetricsSnapshot() returned nil")
	}
	if snapshot["counters"].(map[string]int64)["test"] < 1 {
		t.Error("package counter not recorded")
	}
}

func TestResetMetrics(t *testing.T) {
	IncrCounter("roster.ignored")
	RecordTiming("roster.load", time.Millisecond)

	ResetMetrics()

	snapshot := GetMetricsSnapshot()
	if n := len(snapshot["counters"].(map[string]int64)); n != 0 {
		t.Errorf("counters after ResetMetrics() = %d entries, want 0", n)
	}
	if n := len(snapshot["timings"].(map[string]map[string]interface{})); n != 0 {
		t.Errorf("timings after ResetMetrics() = %d entries, want 0", n)
	}
}
