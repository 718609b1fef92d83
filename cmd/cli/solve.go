package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/limaJavier/rostering/internal/config"
	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/render"
	"github.com/limaJavier/rostering/pkg/roster"
	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/spf13/cobra"
)

func newSolveCmd(settings *config.Settings) *cobra.Command {
	var flags *runFlags
	cmd := &cobra.Command{
		Use:   "solve <configuration>",
		Short: "Generate rosters for a JSON or YAML configuration",
		Long: `Builds the roster model of the configuration, enumerates its solutions (or optimizes
the profile's objective) within the time limit and renders every kept solution.

The process exits with 10 when a roster was found, 20 when the configuration is
infeasible and 30 when the time limit elapsed before any roster was found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, settings)
			logger, err := setup(settings)
			if err != nil {
				return err
			}

			//** Load configuration
			configuration, err := loadConfiguration(args[0], flags)
			if err != nil {
				return err
			}
			solver, err := newSolver(settings.Solver)
			if err != nil {
				return err
			}

			//** Solve
			result, err := roster.NewRosterer(solver, logger).Run(cmd.Context(), configuration, roster.Options{
				Keep:   keepSet(settings),
				Budget: settings.TimeLimit,
			})
			var configErr *model.ConfigurationError
			if errors.As(err, &configErr) {
				for _, problem := range configErr.Problems {
					logger.Error("invalid configuration", "problem", problem)
				}
				return err
			} else if err != nil {
				return fmt.Errorf("an error occurred during roster construction: %w", err)
			}

			printStatistics(cmd.OutOrStdout(), settings.Solver, result)

			//** Render
			solutions := result.Solutions
			if result.Best != nil && len(solutions) == 0 {
				solutions = []roster.Solution{*result.Best}
			}
			sink, release, err := newSink(settings, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("cannot open %v sink: %w", settings.Format, err)
			}
			defer release()
			if err := render.Export(result.Roster, solutions, sink, logger); err != nil {
				return err
			}

			return statusExit(result)
		},
	}
	flags = bindRunFlags(cmd)
	return cmd
}

func loadConfiguration(path string, flags *runFlags) (model.Configuration, error) {
	configuration, err := model.ConfigurationFromFile(path)
	if err != nil {
		return model.Configuration{}, fmt.Errorf("cannot parse configuration file: %w", err)
	}
	if flags.profile != "" {
		configuration.Profile.Name = flags.profile
		configuration.Profile.Families = nil
	}
	if flags.objective != "" {
		configuration.Profile.Objective = flags.objective
	}
	return configuration, nil
}

func printStatistics(out io.Writer, solver string, result roster.Result) {
	stats := result.Statistics
	fmt.Fprintf(out, "Solver: %v\n", solver)
	fmt.Fprintf(out, "Variables: %v\n", result.Roster.Model.Variables())
	fmt.Fprintf(out, "Constraints: %v\n", len(result.Roster.Model.Constraints()))
	for _, family := range result.Roster.Families {
		fmt.Fprintf(out, "  %-12s %d\n", family.Name+":", family.Constraints)
	}
	fmt.Fprintf(out, "Status: %v\n", stats.Status)
	fmt.Fprintf(out, "Exhaustive: %v\n", stats.Exhaustive)
	fmt.Fprintf(out, "Conflicts: %v\n", stats.Conflicts)
	fmt.Fprintf(out, "Branches: %v\n", stats.Branches)
	fmt.Fprintf(out, "Wall time: %v\n", stats.WallTime.Round(time.Millisecond))
	fmt.Fprintf(out, "Solutions: %v\n", stats.SolutionsVisited)
	if result.Optimized {
		fmt.Fprintf(out, "Objective: %v\n", stats.Objective)
	}
}

func statusExit(result roster.Result) error {
	switch result.Status() {
	case sat.Infeasible:
		return &exitError{code: exitInfeasible, message: "roster is infeasible"}
	case sat.Unknown:
		return &exitError{code: exitUnknown, message: "time limit elapsed before a roster was found"}
	default:
		return &exitError{code: exitFeasible, message: "roster found"}
	}
}
