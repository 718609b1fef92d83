package main

import (
	"errors"
	"fmt"

	"github.com/limaJavier/rostering/internal/config"
	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/roster"
	"github.com/spf13/cobra"
)

func newVerifyCmd(settings *config.Settings) *cobra.Command {
	var (
		flags     *runFlags
		checkOnly bool
	)
	cmd := &cobra.Command{
		Use:   "verify <configuration>",
		Short: "Validate a configuration and re-check the rosters the solver delivers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, settings)
			logger, err := setup(settings)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			configuration, err := loadConfiguration(args[0], flags)
			if err != nil {
				return err
			}

			//** Check configuration
			if err := model.Validate(configuration); err != nil {
				var configErr *model.ConfigurationError
				if errors.As(err, &configErr) {
					for _, problem := range configErr.Problems {
						fmt.Fprintf(out, "invalid: %v\n", problem)
					}
				}
				return err
			}
			warnings, err := model.Diagnose(configuration)
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				fmt.Fprintf(out, "warning: %v\n", warning)
			}
			fmt.Fprintln(out, "configuration is valid")
			if checkOnly {
				return nil
			}

			//** Solve and re-check
			solver, err := newSolver(settings.Solver)
			if err != nil {
				return err
			}
			result, err := roster.NewRosterer(solver, logger).Run(cmd.Context(), configuration, roster.Options{
				Keep:   keepSet(settings),
				Budget: settings.TimeLimit,
			})
			if err != nil {
				return err
			}

			failed := 0
			for _, solution := range result.Solutions {
				if err := roster.Verify(result.Roster, solution); err != nil {
					failed++
					fmt.Fprintf(out, "solution %d: %v\n", solution.Index, err)
					continue
				}
				fmt.Fprintf(out, "solution %d: ok\n", solution.Index)
			}
			fmt.Fprintf(out, "%d of %d kept solutions verified (status %v)\n", len(result.Solutions)-failed, len(result.Solutions), result.Status())
			if failed > 0 {
				return fmt.Errorf("%d solutions failed verification", failed)
			}
			return nil
		},
	}
	flags = bindRunFlags(cmd)
	cmd.Flags().BoolVar(&checkOnly, "check-only", false, "Only validate and diagnose the configuration, without solving")
	return cmd
}
