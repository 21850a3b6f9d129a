package log_test

import (
	"bytes"
	"testing"

	"bennypowers.dev/cssvar/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)
	defer log.SetLevel(log.LevelInfo)

	t.Run("Info level logs Info, Warn, Error but not Debug", func(t *testing.T) {
		buf.Reset()
		log.SetLevel(log.LevelInfo)

		log.Debug("debug message")
		log.Info("info message")
		log.Warn("warn message")
		log.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message", "Debug should not be logged at Info level")
		assert.Contains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("Error level only logs Error", func(t *testing.T) {
		buf.Reset()
		log.SetLevel(log.LevelError)

		log.Debug("debug message")
		log.Info("info message")
		log.Warn("warn message")
		log.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "info message")
		assert.NotContains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("Debug level logs everything", func(t *testing.T) {
		buf.Reset()
		log.SetLevel(log.LevelDebug)

		log.Debug("parsed %s", "index.css")
		assert.Contains(t, buf.String(), "[cssvar] parsed index.css")
	})
}

func TestNilOutputDoesNotPanic(t *testing.T) {
	log.SetOutput(nil)
	assert.NotPanics(t, func() {
		log.Error("nobody is listening")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.LevelDebug},
		{"INFO", log.LevelInfo},
		{" warn ", log.LevelWarn},
		{"warning", log.LevelWarn},
		{"error", log.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := log.ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
			assert.NotEmpty(t, level.String())
		})
	}

	_, err := log.ParseLevel("verbose")
	assert.Error(t, err)
}
