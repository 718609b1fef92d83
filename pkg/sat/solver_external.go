package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// externalSolver drives a pseudo-boolean solver executable that reads OPB files and prints "s"/"v" lines.
// Its path is looked up in ConfigPath under the key "<name>Path"
type externalSolver struct {
	name string
	args []string
}

func NewExternalSolver(name string, args ...string) Solver {
	return &externalSolver{name: name, args: args}
}

// Enumeration is incremental: every assignment found is excluded by a blocking constraint before the next call
func (solver *externalSolver) EnumerateAll(ctx context.Context, model *Model, callback Callback, budget time.Duration) (Statistics, error) {
	start := time.Now()
	stats := Statistics{}
	if _, feasible := normalize(model); !feasible {
		return Statistics{Status: Infeasible, Exhaustive: true, WallTime: time.Since(start)}, nil
	}

	ctx, cancel := withBudget(ctx, budget)
	defer cancel()

	working := model.clone()
	for {
		output, err := solver.run(ctx, working.ToOPB(nil, Minimize))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			break
		} else if err != nil {
			return stats, err
		}

		if output.status == Infeasible {
			stats.Exhaustive = true
			break
		} else if output.status == Unknown {
			break
		}

		assignment := output.assignment(model.Variables())
		stats.SolutionsVisited++
		callback(assignment)
		if err := working.Post(blockingConstraint(assignment)); err != nil {
			return stats, err
		}
	}

	stats.WallTime = time.Since(start)
	switch {
	case stats.SolutionsVisited > 0:
		stats.Status = Feasible
	case stats.Exhaustive:
		stats.Status = Infeasible
	default:
		stats.Status = Unknown
	}
	return stats, nil
}

func (solver *externalSolver) SolveOptimal(ctx context.Context, model *Model, objective LinearExpr, direction Direction, callback Callback, budget time.Duration) (Statistics, error) {
	start := time.Now()
	if _, feasible := normalize(model); !feasible {
		return Statistics{Status: Infeasible, Exhaustive: true, WallTime: time.Since(start)}, nil
	}

	ctx, cancel := withBudget(ctx, budget)
	defer cancel()

	stats := Statistics{}
	output, err := solver.run(ctx, model.ToOPB(objective, direction))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		stats.WallTime = time.Since(start)
		return stats, nil
	} else if err != nil {
		return stats, err
	}

	stats.WallTime = time.Since(start)
	stats.Status = output.status
	stats.Exhaustive = output.status == Optimal || output.status == Infeasible
	if output.status == Optimal || output.status == Feasible {
		assignment := output.assignment(model.Variables())
		stats.SolutionsVisited = 1
		stats.Objective = objective.Evaluate(assignment)
		callback(assignment)
	}
	return stats, nil
}

func (solver *externalSolver) run(ctx context.Context, opb string) (solverOutput, error) {
	path, err := getExecutablePath(solver.name + "Path")
	if err != nil {
		return solverOutput{}, err
	}

	// Create a temporary file to hold the OPB content
	tmpFile, err := os.CreateTemp("", "opb-*.opb")
	if err != nil {
		return solverOutput{}, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // Ensure the file is removed after execution

	if _, err := tmpFile.WriteString(opb); err != nil {
		return solverOutput{}, fmt.Errorf("failed to write OPB to temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return solverOutput{}, fmt.Errorf("failed to close temporary file: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, solver.args...)
	cmd.Args = append(cmd.Args, tmpFile.Name())

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return solverOutput{}, ctxErr
	}

	// Solvers conventionally exit with 10/20/30 once a status line was printed, so the exit code alone is not an error
	output, parseErr := parseSolution(stdOut.String())
	if parseErr != nil {
		return solverOutput{}, fmt.Errorf("cannot read %v output: %w", solver.name, parseErr)
	}
	if err != nil && output.status == Unknown {
		return solverOutput{}, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, err.Error(), stderr.String())
	}
	return output, nil
}
