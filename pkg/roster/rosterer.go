package roster

import (
	"context"
	"log/slog"
	"time"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/sat"
)

const DefaultKeep = 5

type Options struct {
	Keep   KeepSet       // Defaults to FirstK(DefaultKeep)
	Budget time.Duration // Wall-clock budget of the search; zero means unbounded
}

// Result is the terminal state of a run. Infeasible models and timeouts are results, not errors:
// Status tells them apart and Exhaustive is false whenever the budget cut the search short
type Result struct {
	Roster     *model.RosterModel
	Solutions  []Solution
	Best       *Solution // Last improving assignment, only when an objective was optimized
	Statistics sat.Statistics
	Optimized  bool
}

func (result Result) Status() sat.Status {
	return result.Statistics.Status
}

func (result Result) Exhaustive() bool {
	return result.Statistics.Exhaustive
}

type Rosterer interface {
	Run(ctx context.Context, config model.Configuration, options Options) (Result, error)
}

type solverRosterer struct {
	builder *model.Builder
	solver  sat.Solver
	logger  *slog.Logger
}

func NewRosterer(solver sat.Solver, logger *slog.Logger) Rosterer {
	if logger == nil {
		logger = slog.Default()
	}
	return &solverRosterer{
		builder: model.NewBuilder(logger),
		solver:  solver,
		logger:  logger,
	}
}

// Run builds the model once, then either optimizes the profile's objective or enumerates every solution,
// collecting the kept ones on the way
func (rosterer *solverRosterer) Run(ctx context.Context, config model.Configuration, options Options) (Result, error) {
	//** Build model
	roster, err := rosterer.builder.Build(ctx, config)
	if err != nil {
		return Result{}, err
	}

	keep := options.Keep
	if keep == nil {
		keep = FirstK(DefaultKeep)
	}
	collector := NewCollector(roster, keep)

	rosterer.logger.Info("solving roster",
		"name", config.Name,
		"variables", roster.Model.Variables(),
		"constraints", len(roster.Model.Constraints()),
		"objective", config.Profile.Objective,
		"budget", options.Budget,
	)

	//** Solve
	var stats sat.Statistics
	optimized := len(roster.Objective) > 0
	if optimized {
		collector.KeepLast()
		stats, err = rosterer.solver.SolveOptimal(ctx, roster.Model, roster.Objective, roster.Direction, collector.Collect, options.Budget)
	} else {
		stats, err = rosterer.solver.EnumerateAll(ctx, roster.Model, collector.Collect, options.Budget)
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Roster:     roster,
		Solutions:  collector.Solutions(),
		Statistics: stats,
		Optimized:  optimized,
	}
	if best, ok := collector.Last(); ok {
		result.Best = &best
	}

	switch {
	case stats.Status == sat.Infeasible:
		rosterer.logger.Warn("roster is infeasible", "name", config.Name)
	case !stats.Exhaustive:
		rosterer.logger.Warn("budget elapsed before the search completed", "solutions", stats.SolutionsVisited, "budget", options.Budget)
	}
	return result, nil
}
