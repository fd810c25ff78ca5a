package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(&buf, slog.LevelInfo, "json")
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("classified", "run_id", "abc")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "classified", entry["msg"])
		assert.Equal(t, "abc", entry["run_id"])
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(&buf, slog.LevelDebug, "console")
		require.NoError(t, err)

		logger.Debug("visible", "rows", 3)
		assert.Contains(t, buf.String(), "msg=visible")
		assert.Contains(t, buf.String(), "rows=3")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewLogger(&bytes.Buffer{}, slog.LevelInfo, "xml")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestUserError(t *testing.T) {
	err := NewUserError("input file is missing", ErrInputNotFound)
	assert.Equal(t, "input file is missing: input file not found", err.Error())
	assert.ErrorIs(t, err, ErrInputNotFound)

	bare := NewUserError("just a message", nil)
	assert.Equal(t, "just a message", bare.Error())
}

func TestIsStructural(t *testing.T) {
	assert.True(t, IsStructural(fmt.Errorf("reading: %w", ErrInputNotFound)))
	assert.True(t, IsStructural(fmt.Errorf("%w: mid", ErrMissingColumn)))
	assert.True(t, IsStructural(ErrMalformedCSV))
	assert.False(t, IsStructural(ErrClassificationUnavailable))
	assert.False(t, IsStructural(errors.New("other")))
}
