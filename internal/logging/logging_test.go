package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", false)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Int64("item_id", 4).Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "srs", entry["service"])
	assert.Equal(t, 4.0, entry["item_id"])
}

func TestNewEmptyLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", false)
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", true)
	require.NoError(t, err)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(nil, "loud", false)
	assert.Error(t, err)
}
