package sat

import (
	"context"
	"time"
)

type Status int

const (
	Unknown    Status = iota // The budget elapsed before any feasible assignment was found
	Feasible                 // At least one feasible assignment was found
	Optimal                  // Optimality was proven (only for SolveOptimal)
	Infeasible               // The solver proved that no feasible assignment exists
)

func (status Status) String() string {
	return [...]string{Unknown: "unknown", Feasible: "feasible", Optimal: "optimal", Infeasible: "infeasible"}[status]
}

type Statistics struct {
	Conflicts        int64
	Branches         int64
	WallTime         time.Duration
	SolutionsVisited int
	Status           Status
	Exhaustive       bool // True whenever the search space was fully explored (or optimality proven) within the budget
	Objective        int  // Objective value of the last delivered assignment (only for SolveOptimal)
}

// Callback receives every feasible assignment, in solver-defined order, synchronously on the search path.
// The assignment must not be retained: implementations may reuse its backing array.
type Callback func(Assignment)

type Solver interface {
	// Enumerates every feasible assignment of the model until the search space is exhausted, the budget elapses or ctx is done.
	// Running out of time is not an error: the returned statistics carry Exhaustive = false
	EnumerateAll(ctx context.Context, model *Model, callback Callback, budget time.Duration) (Statistics, error)

	// Searches for an assignment that optimizes the objective, delivering every improving assignment to the callback.
	// On timeout the best assignment found so far stands
	SolveOptimal(ctx context.Context, model *Model, objective LinearExpr, direction Direction, callback Callback, budget time.Duration) (Statistics, error)
}

func withBudget(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, budget)
}
