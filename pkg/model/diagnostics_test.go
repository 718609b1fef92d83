package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose(t *testing.T) {
	t.Run("No warnings when veterans suffice", func(t *testing.T) {
		warnings, err := Diagnose(smallConfiguration())

		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("Warns when the only veteran is pinned elsewhere", func(t *testing.T) {
		//** Arrange
		config := smallConfiguration()
		config.Requests = append(config.Requests, Request{Employee: 1, Day: 4, Category: AnnualLeave, Pinned: true})

		//** Act
		warnings, err := Diagnose(config)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"day 4 needs 1 veteran seats but at most 0 can be filled"}, warnings)
	})

	t.Run("Warns when seats outnumber veterans", func(t *testing.T) {
		config := smallConfiguration()
		config.Coverage[1].Veterans = intPtr(1)

		warnings, err := Diagnose(config)

		require.NoError(t, err)
		assert.Len(t, warnings, config.Horizon)
	})
}
