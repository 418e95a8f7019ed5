package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratioservice/pkg/config"
)

func newBufferLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := &config.Config{Env: "development", LogLevel: level, LogFormat: "json"}
	return NewWithWriter(cfg, buf), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			newBufferLogger(t, tt.level)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLogger_StructuredFields(t *testing.T) {
	log, buf := newBufferLogger(t, "debug")

	log.Module("ratio").
		WithError(errors.New("boom")).
		WithFields(map[string]interface{}{"company": "샘플전자", "year": "2023"}).
		Warn("account not found")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "account not found", entry["message"])
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "ratio", entry["module"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "샘플전자", entry["company"])
	assert.Equal(t, "2023", entry["year"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, buf := newBufferLogger(t, "warn")

	log.Debug("hidden")
	log.Info("hidden")
	log.Warnf("shown %d", 1)
	log.Errorf("shown %d", 2)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "shown 1", entries[0]["message"])
	assert.Equal(t, "shown 2", entries[1]["message"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	// must not panic
	log.WithField("k", "v").Info("discarded")
	log.WithError(errors.New("x")).Error("discarded")
}
