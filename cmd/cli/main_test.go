package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallProfile = `
name: small
startDate: "2024-01-01"
horizon: 4
categories: [Morning]
employees:
  - {id: 1, name: Ana}
  - {id: 2, name: Bo}
  - {id: 3, name: Cy}
coverage:
  - {category: Morning, minimum: 1, veterans: 0}
workload:
  mode: range
  max: 2
profile:
  name: minimal
`

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProfile(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestCatalogCommand(t *testing.T) {
	//** Act
	out, err := execute(t, "catalog")

	//** Assert
	require.NoError(t, err)
	assert.Contains(t, out, "coverage")
	assert.Contains(t, out, "maximize-requests")
	assert.Contains(t, out, "gophersat")
}

func TestSolveCommand(t *testing.T) {
	//** Arrange
	file := writeProfile(t, smallProfile)

	//** Act
	out, err := execute(t, "solve", file, "--format", "terminal", "--keep", "1", "--time-limit", "20s", "--log-level", "error")

	//** Assert
	var exitErr *exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitFeasible, exitErr.code)
	assert.Contains(t, out, "Status: feasible")
	assert.Contains(t, out, "Exhaustive: true")
	assert.Contains(t, out, "small-0")
}

func TestSolveCommandInfeasible(t *testing.T) {
	//** Arrange
	file := writeProfile(t, strings.Replace(smallProfile, "minimum: 1", "minimum: 5", 1))
	t.Setenv("ROSTER_FORMAT", "terminal")

	//** Act
	out, err := execute(t, "solve", file, "--time-limit", "20s", "--log-level", "error")

	//** Assert
	var exitErr *exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitInfeasible, exitErr.code)
	assert.Contains(t, out, "Status: infeasible")
}

func TestSolveCommandRejectsUnknownSolver(t *testing.T) {
	file := writeProfile(t, smallProfile)

	_, err := execute(t, "solve", file, "--solver", "lingeling", "--format", "terminal")

	assert.ErrorContains(t, err, "not a valid solver")
}

func TestVerifyCommand(t *testing.T) {
	//** Arrange
	file := writeProfile(t, smallProfile)

	//** Act
	out, err := execute(t, "verify", file, "--keep", "3", "--time-limit", "20s", "--log-level", "error")

	//** Assert
	require.NoError(t, err)
	assert.Contains(t, out, "configuration is valid")
	assert.Contains(t, out, "3 of 3 kept solutions verified")
}
