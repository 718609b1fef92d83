package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	//** Act
	settings, err := LoadSettings()

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "gophersat", settings.Solver)
	assert.Equal(t, time.Minute, settings.TimeLimit)
	assert.Equal(t, 5, settings.Keep)
	assert.Empty(t, settings.KeepIndices)
	assert.Equal(t, "xlsx", settings.Format)
	assert.Equal(t, "config.json", settings.SolverConfigPath)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	//** Arrange
	t.Setenv("ROSTER_SOLVER", "roundingsat")
	t.Setenv("ROSTER_TIME_LIMIT", "90s")
	t.Setenv("ROSTER_KEEP_INDICES", "0,3,7")
	t.Setenv("ROSTER_FORMAT", "terminal")
	t.Setenv("ROSTER_LOG_LEVEL", "debug")

	//** Act
	settings, err := LoadSettings()

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "roundingsat", settings.Solver)
	assert.Equal(t, 90*time.Second, settings.TimeLimit)
	assert.Equal(t, []int{0, 3, 7}, settings.KeepIndices)
	assert.Equal(t, "terminal", settings.Format)

	level, err := settings.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadSettingsRejects(t *testing.T) {
	tests := map[string][2]string{
		"format":     {"ROSTER_FORMAT", "pdf"},
		"keep":       {"ROSTER_KEEP", "-1"},
		"duration":   {"ROSTER_TIME_LIMIT", "soon"},
		"log level":  {"ROSTER_LOG_LEVEL", "loud"},
		"time limit": {"ROSTER_TIME_LIMIT", "-5s"},
	}

	for name, variable := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(variable[0], variable[1])

			_, err := LoadSettings()

			assert.Error(t, err)
		})
	}
}
