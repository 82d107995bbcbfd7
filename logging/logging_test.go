package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("JSONWithComponent", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithOutput(&buf, "debug", true)
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

		Component(logger, "collector").WithField("run", "r1").Debug("Expected file missing")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "collector", entry["component"])
		assert.Equal(t, "r1", entry["run"])
		assert.Equal(t, "Expected file missing", entry["msg"])
	})

	t.Run("LevelFilters", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithOutput(&buf, "warn", false)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := New("loud", false)
		assert.Error(t, err)
	})
}
