package main

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/limaJavier/rostering/internal/config"
	"github.com/limaJavier/rostering/pkg/render"
	"github.com/limaJavier/rostering/pkg/roster"
	"github.com/spf13/cobra"
)

// runFlags mirror the settings; only the flags set on the command line override them
type runFlags struct {
	solver      string
	timeLimit   time.Duration
	keep        int
	keepIndices []int
	outputDir   string
	format      string
	logLevel    string
	profile     string
	objective   string
}

func bindRunFlags(cmd *cobra.Command) *runFlags {
	flags := &runFlags{}
	cmd.Flags().StringVarP(&flags.solver, "solver", "s", "gophersat", "Solver backend, one of "+joinNames(solverNames()))
	cmd.Flags().DurationVarP(&flags.timeLimit, "time-limit", "t", time.Minute, "Wall-clock budget of the search, 0 for none")
	cmd.Flags().IntVarP(&flags.keep, "keep", "k", roster.DefaultKeep, "Number of solutions to keep, in delivery order")
	cmd.Flags().IntSliceVar(&flags.keepIndices, "keep-indices", nil, "Exact solution indices to keep (overrides --keep)")
	cmd.Flags().StringVarP(&flags.outputDir, "out", "o", "out", "Directory of the rendered rosters")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "xlsx", "Output format, one of "+joinNames(config.Formats))
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "Constraint profile overriding the configuration's")
	cmd.Flags().StringVar(&flags.objective, "objective", "", "Objective overriding the configuration's")
	return flags
}

func (flags *runFlags) apply(cmd *cobra.Command, settings *config.Settings) {
	changed := cmd.Flags().Changed
	if changed("solver") {
		settings.Solver = flags.solver
	}
	if changed("time-limit") {
		settings.TimeLimit = flags.timeLimit
	}
	if changed("keep") {
		settings.Keep = flags.keep
	}
	if changed("keep-indices") {
		settings.KeepIndices = flags.keepIndices
	}
	if changed("out") {
		settings.OutputDir = flags.outputDir
	}
	if changed("format") {
		settings.Format = flags.format
	}
	if changed("log-level") {
		settings.LogLevel = flags.logLevel
	}
}

func keepSet(settings *config.Settings) roster.KeepSet {
	if len(settings.KeepIndices) > 0 {
		return roster.Indices(settings.KeepIndices...)
	}
	return roster.FirstK(settings.Keep)
}

// newSink returns the sink of the configured format and a function releasing it
func newSink(settings *config.Settings, out io.Writer) (render.Sink, func() error, error) {
	noop := func() error { return nil }
	switch settings.Format {
	case "terminal":
		return render.NewTerminalSink(out), noop, nil
	case "sqlite":
		path := settings.Database
		if !filepath.IsAbs(path) {
			path = filepath.Join(settings.OutputDir, path)
		}
		sink, err := render.OpenSQLiteSink(path)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink.Close, nil
	default:
		return render.NewXLSXSink(settings.OutputDir), noop, nil
	}
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
