package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestComponentLoggerWritesJSON(t *testing.T) {
	var buffer bytes.Buffer
	logger := Component(NewWithWriter(&buffer, "info", false), ComponentWeb)

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/healthz").Msg("request")

	lines := bytes.Split(bytes.TrimSpace(buffer.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "web", entry["component"])
	assert.Equal(t, "/healthz", entry["path"])
	assert.Equal(t, "request", entry["message"])
	assert.Contains(t, entry, "time")
}
