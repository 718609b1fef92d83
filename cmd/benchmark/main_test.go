package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallProfile = `{
	"name": "small",
	"startDate": "2024-01-01",
	"horizon": 4,
	"categories": ["Morning"],
	"employees": [{"id": 1, "name": "Ana"}, {"id": 2, "name": "Bo"}, {"id": 3, "name": "Cy"}],
	"coverage": [{"category": "Morning", "minimum": 1, "veterans": 0}],
	"workload": {"mode": "range", "max": 2},
	"profile": {"name": "minimal"}
}`

func TestResultOf(t *testing.T) {
	assert.Equal(t, unsatisfiable, resultOf(sat.Statistics{Status: sat.Infeasible}))
	assert.Equal(t, optimal, resultOf(sat.Statistics{Status: sat.Optimal}))
	assert.Equal(t, timeout, resultOf(sat.Statistics{Status: sat.Unknown}))
	assert.Equal(t, solved, resultOf(sat.Statistics{Status: sat.Feasible}))
}

func TestMeasure(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "small.json"), []byte(smallProfile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "notes.txt"), []byte("ignored"), 0o644))
	profiles, err := getProfiles(directory)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	//** Act
	result, err := measure(context.Background(), "gophersat", 20*time.Second, profiles[0])

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "small", result.Profile.Name)
	assert.Equal(t, "minimal", result.Profile.Profile)
	assert.Equal(t, 12, result.Variables)
	assert.Equal(t, solved, result.Result)
	assert.True(t, result.Exhaustive)
	assert.Positive(t, result.Solutions)
}

func TestRunMeasurement(t *testing.T) {
	directory := t.TempDir()
	file := filepath.Join(directory, "small.json")
	require.NoError(t, os.WriteFile(file, []byte(smallProfile), 0o644))

	t.Run("Reports the measurement as JSON", func(t *testing.T) {
		//** Arrange
		var out bytes.Buffer

		//** Act
		err := runMeasurement([]string{"gophersat", "20s", file}, &out)

		//** Assert
		require.NoError(t, err)
		result, err := parseMeasurement(out.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "gophersat", result.Solver)
		assert.Equal(t, 20*time.Second, result.Budget)
		assert.Equal(t, file, result.Profile.File)
		assert.Equal(t, 12, result.Variables)
		assert.Equal(t, solved, result.Result)
	})

	t.Run("Rejects malformed arguments", func(t *testing.T) {
		var out bytes.Buffer

		assert.Error(t, runMeasurement([]string{"gophersat", "20s"}, &out))
		assert.Error(t, runMeasurement([]string{"minisat", "20s", file}, &out))
		assert.Error(t, runMeasurement([]string{"gophersat", "soon", file}, &out))
		assert.Empty(t, out.String())
	})
}

func TestParseMeasurement(t *testing.T) {
	_, err := parseMeasurement([]byte("panic: out of memory"))
	assert.Error(t, err)

	_, err = parseMeasurement([]byte("{}"))
	assert.Error(t, err)
}

func TestToCsv(t *testing.T) {
	//** Arrange
	var out bytes.Buffer
	results := []BenchmarkResult{{
		Solver:  "gophersat",
		Budget:  30 * time.Second,
		Profile: ProfileMetadata{Name: "month", Profile: "minimal", Employees: 8, Days: 31, Categories: 2},
		Result:  timeout,
	}}

	//** Act
	err := toCsv(&out, results)

	//** Assert
	require.NoError(t, err)
	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Solver", records[0][0])
	assert.Equal(t, []string{"gophersat", "30", "month", "minimal"}, records[1][:4])
	assert.Equal(t, "timeout", records[1][len(records[1])-1])
}
