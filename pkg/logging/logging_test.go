package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Options{Level: "warn", Format: FormatJSON, Output: buf})
	require.NoError(t, err)

	logger.Debug("hidden", "unit", "a")
	logger.Warn("shown", "unit", "b")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "b", entry["unit"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}

func TestNopIsSafe(t *testing.T) {
	l := OrNop(nil)
	l.Debug("x")
	l.Warn("y", "k", 1)
	l.Error("z")
}
