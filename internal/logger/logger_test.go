package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		json bool
	}{
		{"text", false},
		{"json", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := WithSession(New(Config{Level: slog.LevelInfo, Output: &buf, JSONFormat: tt.json}), "abc")
			l.Debug("hidden")
			l.Info("Normalized to /tmp/a_temp_playback.wav")

			out := buf.String()
			if strings.Contains(out, "hidden") {
				t.Errorf("debug record should be filtered: %s", out)
			}
			if !strings.Contains(out, "session") || !strings.Contains(out, "abc") {
				t.Errorf("session attribute missing: %s", out)
			}
			if tt.json {
				var rec map[string]any
				if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
					t.Fatalf("not JSON: %v", err)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
