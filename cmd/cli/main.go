package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/limaJavier/rostering/internal/config"
	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/spf13/cobra"
)

var Version = "dev"

// Exit codes follow the solver convention
const (
	exitFeasible   = 10
	exitInfeasible = 20
	exitUnknown    = 30
)

// exitError carries a process exit code out of a command
type exitError struct {
	code    int
	message string
}

func (err *exitError) Error() string {
	return err.message
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	settings := &config.Settings{}

	cmd := &cobra.Command{
		Use:           "rostering",
		Short:         "Shift roster generation on a pseudo-boolean solver",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadSettings()
			if err != nil {
				return fmt.Errorf("cannot load settings: %w", err)
			}
			*settings = *loaded
			return nil
		},
	}

	cmd.AddCommand(newSolveCmd(settings))
	cmd.AddCommand(newVerifyCmd(settings))
	cmd.AddCommand(newCatalogCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd
}

// setup applies the settings once flags have overridden them
func setup(settings *config.Settings) (*slog.Logger, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	level, err := settings.Level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	sat.ConfigPath = solverConfigPath(settings.SolverConfigPath)
	return logger, nil
}

// solverConfigPath resolves a relative solver config against the working directory first, then the executable's directory
func solverConfigPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	execPath, err := os.Executable()
	if err != nil {
		return path
	}
	return filepath.Join(filepath.Dir(execPath), path)
}
