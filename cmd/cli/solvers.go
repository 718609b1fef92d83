package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
)

// External backends read OPB files; their executables are listed in the solver config under "<name>Path"
var solvers = map[string]func() sat.Solver{
	"gophersat":   sat.NewGophersatSolver,
	"roundingsat": func() sat.Solver { return sat.NewExternalSolver("roundingsat", "--print-sol=1") },
	"naps":        func() sat.Solver { return sat.NewExternalSolver("naps") },
	"sat4j":       func() sat.Solver { return sat.NewExternalSolver("sat4j") },
}

func solverNames() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

func newSolver(name string) (sat.Solver, error) {
	constructor, ok := solvers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver, expected one of %v", name, solverNames())
	}
	return constructor(), nil
}
