package main

import (
	"fmt"
	"strings"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the constraint families, the profiles using them and the objectives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Constraint families (posting order)")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			for _, family := range model.Catalog() {
				fmt.Fprintf(out, "  %-12s %v\n", family.Name, family.Description)
				fmt.Fprintf(out, "  %-12s profiles: %v\n", "", strings.Join(family.Profiles, ", "))
			}

			fmt.Fprintln(out, "\nObjectives")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			for _, objective := range model.Objectives() {
				fmt.Fprintf(out, "  %v\n", lo.Ternary(objective == model.NoObjective, "(none): enumerate every roster", objective))
			}

			fmt.Fprintln(out, "\nSolvers")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			for _, name := range solverNames() {
				fmt.Fprintf(out, "  %v\n", name)
			}
			return nil
		},
	}
}
