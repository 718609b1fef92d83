package sat

import (
	"context"
	"time"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

// gophersatSolver runs the search in-process through gophersat's pseudo-boolean engine.
// The engine cannot be interrupted: it ignores its stop channel, so on timeout the search goroutine is
// abandoned and parks at its next delivery, since nobody receives from its channel anymore
type gophersatSolver struct{}

func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) EnumerateAll(ctx context.Context, model *Model, callback Callback, budget time.Duration) (Statistics, error) {
	start := time.Now()
	constraints, feasible := normalize(model)
	if !feasible {
		return Statistics{Status: Infeasible, Exhaustive: true, WallTime: time.Since(start)}, nil
	}

	ctx, cancel := withBudget(ctx, budget)
	defer cancel()

	pbSolver := solver.New(solver.ParsePBConstrs(toPBConstrs(constraints, model.Variables())))

	models := make(chan []bool)
	done := make(chan struct{})
	go func() {
		pbSolver.Enumerate(models, nil)
		close(done)
	}()

	stats := Statistics{}
	assignment := make(Assignment, model.Variables())
	for {
		select {
		case values, ok := <-models:
			if !ok {
				models = nil // Wait for done
				continue
			}
			copyModel(assignment, values)
			stats.SolutionsVisited++
			callback(assignment)

		case <-done:
			stats.Conflicts, stats.Branches = int64(pbSolver.Stats.NbConflicts), int64(pbSolver.Stats.NbDecisions)
			stats.WallTime = time.Since(start)
			stats.Exhaustive = true
			stats.Status = lo.Ternary(stats.SolutionsVisited > 0, Feasible, Infeasible)
			return stats, nil

		case <-ctx.Done():
			// Search counters are owned by the abandoned goroutine, so they are not read here
			stats.WallTime = time.Since(start)
			stats.Status = lo.Ternary(stats.SolutionsVisited > 0, Feasible, Unknown)
			return stats, nil
		}
	}
}

func (s *gophersatSolver) SolveOptimal(ctx context.Context, model *Model, objective LinearExpr, direction Direction, callback Callback, budget time.Duration) (Statistics, error) {
	start := time.Now()
	constraints, feasible := normalize(model)
	if !feasible {
		return Statistics{Status: Infeasible, Exhaustive: true, WallTime: time.Since(start)}, nil
	}

	ctx, cancel := withBudget(ctx, budget)
	defer cancel()

	problem := solver.ParsePBConstrs(toPBConstrs(constraints, model.Variables()))
	lits, weights := costFunction(objective, direction)
	problem.SetCostFunc(lits, weights)
	pbSolver := solver.New(problem)

	results := make(chan solver.Result)
	done := make(chan solver.Result, 1)
	go func() {
		done <- pbSolver.Optimal(results, nil)
	}()

	stats := Statistics{}
	assignment := make(Assignment, model.Variables())
	deliver := func(result solver.Result) {
		copyModel(assignment, result.Model)
		stats.SolutionsVisited++
		stats.Objective = objective.Evaluate(assignment)
		callback(assignment)
	}

	for {
		select {
		case result, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			if result.Status == solver.Sat {
				deliver(result)
			}

		case final := <-done:
			stats.Conflicts, stats.Branches = int64(pbSolver.Stats.NbConflicts), int64(pbSolver.Stats.NbDecisions)
			stats.WallTime = time.Since(start)
			stats.Exhaustive = true
			switch {
			case final.Status == solver.Unsat:
				stats.Status = Infeasible
			case final.Status == solver.Sat:
				// The optimum is always handed to the callback, even when it was never streamed as an improvement
				if stats.SolutionsVisited == 0 || stats.Objective != objective.Evaluate(toAssignment(final.Model, model.Variables())) {
					deliver(final)
				}
				stats.Status = Optimal
			default:
				stats.Exhaustive = false
				stats.Status = lo.Ternary(stats.SolutionsVisited > 0, Feasible, Unknown)
			}
			return stats, nil

		case <-ctx.Done():
			stats.WallTime = time.Since(start)
			stats.Status = lo.Ternary(stats.SolutionsVisited > 0, Feasible, Unknown)
			return stats, nil
		}
	}
}

// toPBConstrs also declares every variable of the model through a trivially true constraint on the last one,
// so variables absent from every constraint are free in the engine whatever their index
func toPBConstrs(constraints []pbConstraint, variables int) []solver.PBConstr {
	pbConstrs := lo.Map(constraints, func(constraint pbConstraint, _ int) solver.PBConstr {
		return solver.GtEq(constraint.lits, constraint.weights, constraint.atLeast)
	})
	if variables > 0 {
		pbConstrs = append(pbConstrs, solver.GtEq([]int{variables}, []int{1}, 0))
	}
	return pbConstrs
}

// costFunction expresses the objective as a minimization over positively weighted literals (constant offsets are irrelevant for the argmin)
func costFunction(objective LinearExpr, direction Direction) ([]solver.Lit, []int) {
	lits, weights := make([]solver.Lit, 0, len(objective)), make([]int, 0, len(objective))
	for _, term := range objective {
		coefficient := term.Coefficient
		if direction == Maximize {
			coefficient = -coefficient
		}
		switch {
		case coefficient > 0:
			lits = append(lits, solver.IntToLit(int32(term.Var)))
			weights = append(weights, coefficient)
		case coefficient < 0:
			lits = append(lits, solver.IntToLit(-int32(term.Var)))
			weights = append(weights, -coefficient)
		}
	}
	return lits, weights
}

func copyModel(assignment Assignment, values []bool) {
	for i := range assignment {
		assignment[i] = i < len(values) && values[i]
	}
}

func toAssignment(values []bool, variables int) Assignment {
	assignment := make(Assignment, variables)
	copyModel(assignment, values)
	return assignment
}
