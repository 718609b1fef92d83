package sat

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBudget = 10 * time.Second

// exactlyOneModel posts x1 + x2 + x3 = 1, which has exactly three solutions
func exactlyOneModel(t *testing.T) (*Model, []Var) {
	model := NewModel()
	vars := []Var{model.NewBoolVar("a"), model.NewBoolVar("b"), model.NewBoolVar("c")}
	require.NoError(t, model.Post(Constraint{Name: "exactly-one", Expr: Sum(vars...), Relation: EQ, Bound: 1}))
	return model, vars
}

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()

	t.Run("Enumerates every solution", func(t *testing.T) {
		//** Arrange
		model, _ := exactlyOneModel(t)
		seen := make(map[string]bool)

		//** Act
		stats, err := solver.EnumerateAll(context.Background(), model, func(assignment Assignment) {
			assert.NoError(t, model.Check(assignment))
			seen[assignmentKey(assignment)] = true
		}, testBudget)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, 3, stats.SolutionsVisited)
		assert.Len(t, seen, 3)
		assert.True(t, stats.Exhaustive)
		assert.Equal(t, Feasible, stats.Status)
	})

	t.Run("Reports infeasibility without solutions", func(t *testing.T) {
		//** Arrange
		model, vars := exactlyOneModel(t)
		require.NoError(t, model.Post(Constraint{Name: "two", Expr: Sum(vars...), Relation: GE, Bound: 2}))
		calls := 0

		//** Act
		stats, err := solver.EnumerateAll(context.Background(), model, func(Assignment) { calls++ }, testBudget)

		//** Assert
		require.NoError(t, err)
		assert.Zero(t, calls)
		assert.Equal(t, Infeasible, stats.Status)
		assert.True(t, stats.Exhaustive)
	})

	t.Run("Handles strict and negative relations", func(t *testing.T) {
		//** Arrange
		model := NewModel()
		x, y := model.NewBoolVar("x"), model.NewBoolVar("y")
		require.NoError(t, model.Post(Constraint{Name: "diff", Expr: LinearExpr{{x, 1}, {y, -1}}, Relation: GT, Bound: 0}))
		var last Assignment

		//** Act
		stats, err := solver.EnumerateAll(context.Background(), model, func(assignment Assignment) {
			last = append(Assignment{}, assignment...)
		}, testBudget)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, 1, stats.SolutionsVisited)
		assert.Equal(t, Assignment{true, false}, last)
	})

	t.Run("Keeps variables outside every constraint free", func(t *testing.T) {
		for _, constrained := range []int{0, 2} {
			//** Arrange
			model := NewModel()
			vars := lo.Times(3, func(i int) Var { return model.NewBoolVar("v") })
			require.NoError(t, model.Post(Constraint{Name: "on", Expr: Sum(vars[constrained]), Relation: GE, Bound: 1}))

			//** Act
			stats, err := solver.EnumerateAll(context.Background(), model, func(assignment Assignment) {
				assert.True(t, assignment.Value(vars[constrained]))
			}, testBudget)

			//** Assert
			require.NoError(t, err)
			assert.Equal(t, 4, stats.SolutionsVisited, "constrained variable %d", constrained)
		}
	})

	t.Run("Finds the optimum", func(t *testing.T) {
		//** Arrange
		model := NewModel()
		vars := lo.Times(4, func(i int) Var { return model.NewBoolVar("v") })
		require.NoError(t, model.Post(Constraint{Name: "at-most-two", Expr: Sum(vars...), Relation: LE, Bound: 2}))
		objective := LinearExpr{{vars[0], 1}, {vars[1], 5}, {vars[2], 3}, {vars[3], 1}}
		calls := 0

		//** Act
		stats, err := solver.SolveOptimal(context.Background(), model, objective, Maximize, func(assignment Assignment) {
			calls++
			assert.NoError(t, model.Check(assignment))
		}, testBudget)

		//** Assert
		require.NoError(t, err)
		assert.GreaterOrEqual(t, calls, 1)
		assert.Equal(t, Optimal, stats.Status)
		assert.Equal(t, 8, stats.Objective)
	})
}

func TestModel(t *testing.T) {
	t.Run("Rejects unknown variables", func(t *testing.T) {
		model := NewModel()
		x := model.NewBoolVar("x")

		err := model.Post(Constraint{Name: "bad", Expr: Sum(x, Var(7)), Relation: LE, Bound: 1})

		var modelErr *ModelError
		require.ErrorAs(t, err, &modelErr)
		assert.Equal(t, Var(7), modelErr.Var)
		assert.Empty(t, model.Constraints())
	})

	t.Run("Rejects constraints without a relation", func(t *testing.T) {
		model := NewModel()
		x := model.NewBoolVar("x")

		err := model.Post(Constraint{Name: "loose", Expr: Sum(x), Bound: 1})

		assert.ErrorContains(t, err, "loose")
		assert.Empty(t, model.Constraints())
	})

	t.Run("Check reports the violated constraint", func(t *testing.T) {
		model, _ := exactlyOneModel(t)

		assert.NoError(t, model.Check(Assignment{false, true, false}))
		assert.ErrorContains(t, model.Check(Assignment{true, true, false}), "exactly-one")
	})

	t.Run("Parses relations", func(t *testing.T) {
		for input, expected := range map[string]Relation{"=": EQ, "==": EQ, "le": LE, ">=": GE, "<": LT, "GT": GT} {
			relation, err := ParseRelation(input)
			assert.NoError(t, err)
			assert.Equal(t, expected, relation)
		}
		_, err := ParseRelation("~")
		assert.Error(t, err)
	})
}

// Every rewritten form must accept exactly the assignments accepted by the original constraint
func TestNormalizationPreservesSemantics(t *testing.T) {
	model := NewModel()
	vars := lo.Times(3, func(i int) Var { return model.NewBoolVar("v") })
	expr := LinearExpr{{vars[0], 2}, {vars[1], -1}, {vars[2], 1}}

	for _, relation := range []Relation{EQ, LE, GE, LT, GT} {
		for bound := -2; bound <= 3; bound++ {
			constraint := Constraint{Expr: expr, Relation: relation, Bound: bound}
			forms := lo.Map(geForms(constraint), func(form Constraint, _ int) pbConstraint { return positiveForm(form) })

			for mask := range 8 {
				assignment := Assignment{mask&1 != 0, mask&2 != 0, mask&4 != 0}
				expected := relation.Holds(expr.Evaluate(assignment), bound)
				actual := lo.EveryBy(forms, func(pb pbConstraint) bool {
					sum := 0
					for i, lit := range pb.lits {
						if (lit > 0) == assignment.Value(Var(lo.Ternary(lit > 0, lit, -lit))) {
							sum += pb.weights[i]
						}
					}
					return sum >= pb.atLeast
				})
				assert.Equal(t, expected, actual, "relation %v bound %d assignment %v", relation, bound, assignment)
			}
		}
	}
}

func TestToOPB(t *testing.T) {
	model := NewModel()
	x, y := model.NewBoolVar("x"), model.NewBoolVar("y")
	require.NoError(t, model.Post(Constraint{Expr: Sum(x, y), Relation: EQ, Bound: 1}))
	require.NoError(t, model.Post(Constraint{Expr: Sum(x, y), Relation: LE, Bound: 1}))

	opb := model.ToOPB(Sum(y), Maximize)

	assert.Equal(t, "* #variable= 2 #constraint= 2\nmin: -1 x2 ;\n+1 x1 +1 x2 = 1 ;\n-1 x1 -1 x2 >= -1 ;\n", opb)
}

func TestParseSolution(t *testing.T) {
	t.Run("Reads status and values", func(t *testing.T) {
		output, err := parseSolution("c comment\no 3\ns OPTIMUM FOUND\nv x1 -x2\nv x3\n")
		require.NoError(t, err)

		assert.Equal(t, Optimal, output.status)
		assert.Equal(t, Assignment{true, false, true, false}, output.assignment(4))

		output, err = parseSolution("s UNSATISFIABLE\n")
		require.NoError(t, err)
		assert.Equal(t, Infeasible, output.status)
	})

	t.Run("Fails on a malformed literal", func(t *testing.T) {
		_, err := parseSolution("s SATISFIABLE\nv x1 -xtwo\n")

		assert.ErrorContains(t, err, "-xtwo")
	})
}

func TestExternalSolver(t *testing.T) {
	//** Arrange
	dir := t.TempDir()
	state := filepath.Join(dir, "state")
	script := filepath.Join(dir, "fake-solver")
	require.NoError(t, os.WriteFile(script, []byte(`#!/bin/sh
if [ -f "`+state+`" ]; then echo "s UNSATISFIABLE"; exit 20; fi
touch "`+state+`"
echo "s SATISFIABLE"
echo "v -x1 x2 -x3"
exit 10
`), 0o755))
	config := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(config, []byte(`{"fakePath": "`+script+`"}`), 0o644))

	previous := ConfigPath
	ConfigPath = config
	t.Cleanup(func() { ConfigPath = previous })

	model, _ := exactlyOneModel(t)
	solutions := make([]Assignment, 0)

	//** Act
	stats, err := NewExternalSolver("fake").EnumerateAll(context.Background(), model, func(assignment Assignment) {
		solutions = append(solutions, append(Assignment{}, assignment...))
	}, testBudget)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{false, true, false}}, solutions)
	assert.True(t, stats.Exhaustive)
	assert.Equal(t, Feasible, stats.Status)
}

func TestExternalSolverMissingConfig(t *testing.T) {
	previous := ConfigPath
	ConfigPath = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { ConfigPath = previous })

	model, _ := exactlyOneModel(t)
	_, err := NewExternalSolver("fake").EnumerateAll(context.Background(), model, func(Assignment) {}, testBudget)

	assert.Error(t, err)
}

func assignmentKey(assignment Assignment) string {
	return string(lo.Map(assignment, func(value bool, _ int) byte { return lo.Ternary[byte](value, '1', '0') }))
}
