package model

import (
	"fmt"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
)

type constraintState struct {
	config    Configuration
	evaluator predicateEvaluator
	indexer   indexer
	generator cellGenerator

	employees,
	days,
	categories int
}

func (state constraintState) employeeName(employee int) string {
	return fmt.Sprintf("employee %d", state.config.Employees[employee].Id)
}

func (state constraintState) categoryName(category int) string {
	return state.config.Categories[category].String()
}

// activeSum returns Σ assigned(e, d, c) over the active categories of days [from, to]
func (state constraintState) activeSum(employee, from, to int) sat.LinearExpr {
	vars := make([]sat.Var, 0, (to-from+1)*state.categories)
	for day := from; day <= to; day++ {
		for category := range state.categories {
			if state.evaluator.Active(category) {
				vars = append(vars, state.indexer.Index(employee, day, category))
			}
		}
	}
	return sat.Sum(vars...)
}

// cellVars maps generated cells to their variables
func (state constraintState) cellVars(cells [][]int) []sat.Var {
	return lo.Map(cells, func(cell []int, _ int) sat.Var { return state.indexer.Index(cell[0], cell[1], cell[2]) })
}

func coverageConstraints(state constraintState) []sat.Constraint {
	cells := state.generator.ConstrainedCells([]func(cell []int) bool{
		// Coverage(d, c) is defined
		func(cell []int) bool {
			day, category := cell[1], cell[2]

			if day == unset || category == unset {
				return true
			}
			_, _, _, ok := state.evaluator.Coverage(day, category)
			return ok
		},
	})
	staffed := lo.GroupBy(cells, func(cell []int) [2]int { return [2]int{cell[1], cell[2]} })

	constraints := make([]sat.Constraint, 0)
	for day := range state.days {
		for category := range state.categories {
			minimum, veterans, exact, ok := state.evaluator.Coverage(day, category)
			if !ok {
				continue
			}
			group := staffed[[2]int{day, category}]

			// Σ_e assigned(e, d, c) >= minimum (= minimum when exact)
			if minimum > 0 || exact {
				constraints = append(constraints, sat.Constraint{
					Name:     fmt.Sprintf("coverage: %v on day %d", state.categoryName(category), day),
					Expr:     sat.Sum(state.cellVars(group)...),
					Relation: lo.Ternary(exact, sat.EQ, sat.GE),
					Bound:    minimum,
				})
			}

			// Σ_veterans assigned(e, d, c) >= veterans
			if veterans > 0 {
				veteranCells := lo.Filter(group, func(cell []int, _ int) bool { return state.evaluator.Veteran(cell[0]) })
				constraints = append(constraints, sat.Constraint{
					Name:     fmt.Sprintf("coverage: veterans on %v on day %d", state.categoryName(category), day),
					Expr:     sat.Sum(state.cellVars(veteranCells)...),
					Relation: sat.GE,
					Bound:    veterans,
				})
			}
		}
	}
	return constraints
}

func exclusivityConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0, state.employees*state.days)
	for employee := range state.employees {
		for day := range state.days {
			// Σ_c assigned(e, d, c) <= 1
			vars := lo.Times(state.categories, func(category int) sat.Var { return state.indexer.Index(employee, day, category) })
			constraints = append(constraints, sat.Constraint{
				Name:     fmt.Sprintf("exclusivity: %v on day %d", state.employeeName(employee), day),
				Expr:     sat.Sum(vars...),
				Relation: sat.LE,
				Bound:    1,
			})
		}
	}
	return constraints
}

func adjacencyConstraints(state constraintState) []sat.Constraint {
	positions := state.config.categoryPositions()
	before, okBefore := positions[state.config.Adjacency.Before]
	after, okAfter := positions[state.config.Adjacency.After]
	if !okBefore || !okAfter {
		return nil
	}

	constraints := make([]sat.Constraint, 0)
	for employee := range state.employees {
		for day := range state.days - 1 {
			if state.evaluator.AdjacencyRelaxed(day) {
				continue
			}
			// assigned(e, d, Before) + assigned(e, d+1, After) <= 1
			constraints = append(constraints, sat.Constraint{
				Name:     fmt.Sprintf("adjacency: %v on days %d-%d", state.employeeName(employee), day, day+1),
				Expr:     sat.Sum(state.indexer.Index(employee, day, before), state.indexer.Index(employee, day+1, after)),
				Relation: sat.LE,
				Bound:    1,
			})
		}
	}
	return constraints
}

// slidingWindowConstraints bounds the active sum of every window [d, d+window-1] fully inside the horizon
func slidingWindowConstraints(state constraintState, family string, window int, relation sat.Relation, bound int) []sat.Constraint {
	constraints := make([]sat.Constraint, 0)
	for employee := range state.employees {
		for from := 0; from+window <= state.days; from++ {
			constraints = append(constraints, sat.Constraint{
				Name:     fmt.Sprintf("%v: %v on days %d-%d", family, state.employeeName(employee), from, from+window-1),
				Expr:     state.activeSum(employee, from, from+window-1),
				Relation: relation,
				Bound:    bound,
			})
		}
	}
	return constraints
}

func consecutiveConstraints(state constraintState) []sat.Constraint {
	window := state.config.Rest.ConsecutiveWindow
	return slidingWindowConstraints(state, ConsecutiveFamily, window, sat.LT, window)
}

func twoWeekConstraints(state constraintState) []sat.Constraint {
	rest := state.config.Rest
	return slidingWindowConstraints(state, TwoWeekFamily, rest.TwoWeekWindow, sat.LE, rest.TwoWeekCap)
}

func quotaConstraints(state constraintState) []sat.Constraint {
	cells := state.generator.ConstrainedCells([]func(cell []int) bool{
		// PinnedOnly(c) = 1
		func(cell []int) bool {
			category := cell[2]
			return category == unset || state.evaluator.PinnedOnly(category)
		},
	})
	quotas := lo.GroupBy(cells, func(cell []int) [2]int { return [2]int{cell[0], cell[2]} })

	constraints := make([]sat.Constraint, 0, len(quotas))
	for employee := range state.employees {
		for category := range state.categories {
			group, ok := quotas[[2]int{employee, category}]
			if !ok {
				continue
			}
			// Σ_d assigned(e, d, c) = Σ_d requested(e, d, c)
			constraints = append(constraints, sat.Constraint{
				Name:     fmt.Sprintf("quota: %v on %v", state.employeeName(employee), state.categoryName(category)),
				Expr:     sat.Sum(state.cellVars(group)...),
				Relation: sat.EQ,
				Bound:    state.evaluator.Requests(employee, category),
			})
		}
	}
	return constraints
}

func totalDaysConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0, state.employees)
	for employee := range state.employees {
		// Σ_d,c assigned(e, d, c) = horizon
		vars := make([]sat.Var, 0, state.days*state.categories)
		for day := range state.days {
			for category := range state.categories {
				vars = append(vars, state.indexer.Index(employee, day, category))
			}
		}
		constraints = append(constraints, sat.Constraint{
			Name:     fmt.Sprintf("total-days: %v", state.employeeName(employee)),
			Expr:     sat.Sum(vars...),
			Relation: sat.EQ,
			Bound:    state.days,
		})
	}
	return constraints
}

func workloadConstraints(state constraintState) []sat.Constraint {
	cells := state.generator.ConstrainedCells([]func(cell []int) bool{
		// Works(c) = 1
		func(cell []int) bool {
			category := cell[2]
			return category == unset || state.evaluator.Works(category)
		},
	})
	worked := lo.GroupBy(cells, func(cell []int) int { return cell[0] })

	constraints := make([]sat.Constraint, 0, 2*state.employees)
	for employee := range state.employees {
		expr := sat.Sum(state.cellVars(worked[employee])...)
		minimum, maximum := state.evaluator.Workload(employee)
		name := fmt.Sprintf("workload: %v", state.employeeName(employee))

		if minimum == maximum {
			constraints = append(constraints, sat.Constraint{Name: name, Expr: expr, Relation: sat.EQ, Bound: minimum})
			continue
		}
		if minimum > 0 {
			constraints = append(constraints, sat.Constraint{Name: name, Expr: expr, Relation: sat.GE, Bound: minimum})
		}
		constraints = append(constraints, sat.Constraint{Name: name, Expr: expr, Relation: sat.LE, Bound: maximum})
	}
	return constraints
}

func overrideConstraints(state constraintState) []sat.Constraint {
	employees, categories := state.config.employeePositions(), state.config.categoryPositions()

	constraints := make([]sat.Constraint, 0, len(state.config.Overrides))
	for i, override := range state.config.Overrides {
		employee := employees[override.Employee]
		scope := override.Categories
		if len(scope) == 0 {
			scope = state.config.ActiveCategories()
		}

		// Σ_{d in [from, to], c in scope} assigned(e, d, c) <relation> bound
		from, to := override.span(state.days)
		vars := make([]sat.Var, 0, (to-from+1)*len(scope))
		for day := from; day <= to; day++ {
			for _, category := range scope {
				vars = append(vars, state.indexer.Index(employee, day, categories[category]))
			}
		}

		constraints = append(constraints, sat.Constraint{
			Name:     fmt.Sprintf("override %d: %v: %v", i, state.employeeName(employee), override.Description),
			Expr:     sat.Sum(vars...),
			Relation: override.Relation,
			Bound:    override.Bound,
		})
	}
	return constraints
}

func pinningConstraints(state constraintState) []sat.Constraint {
	cells := state.generator.ConstrainedCells([]func(cell []int) bool{
		// Pinned(e, d, c) = 1
		func(cell []int) bool {
			employee, day, category := cell[0], cell[1], cell[2]

			return employee == unset ||
				day == unset ||
				category == unset ||

				// Actual predicate
				state.evaluator.Pinned(employee, day, category)
		},
	})

	return lo.Map(cells, func(cell []int, _ int) sat.Constraint {
		return sat.Constraint{
			Name:     fmt.Sprintf("pinning: %v on day %d as %v", state.employeeName(cell[0]), cell[1], state.categoryName(cell[2])),
			Expr:     sat.Sum(state.indexer.Index(cell[0], cell[1], cell[2])),
			Relation: sat.EQ,
			Bound:    1,
		}
	})
}
