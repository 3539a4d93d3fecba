package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		log := newLogger(&bytes.Buffer{}, tt.level, false, false)
		if log.GetLevel() != tt.want {
			t.Errorf("level %q: got %v, want %v", tt.level, log.GetLevel(), tt.want)
		}
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "info", false, false)

	log.Info().Str("course_id", "c-1").Msg("Course created")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["service"] != "grade-tracker" {
		t.Errorf("service field = %v", entry["service"])
	}
	if entry["course_id"] != "c-1" {
		t.Errorf("course_id field = %v", entry["course_id"])
	}
}
