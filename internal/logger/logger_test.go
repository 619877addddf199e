package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level defaults to info", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, "text")
			require.NotNil(t, log)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	log := NewWithWriter("warn", "json", &buf)

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	assert.Contains(t, buf.String(), "warn message")
	assert.Contains(t, buf.String(), "error message")
}

func TestFormatting(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	log := NewWithWriter("info", "json", &buf)

	log.Info(ctx, "processed %d chunks for %s", 9, "video.mp4")
	assert.Contains(t, buf.String(), "processed 9 chunks for video.mp4")
}
