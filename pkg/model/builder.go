package model

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type FamilyCount struct {
	Name        string
	Constraints int
}

// RosterModel is the decision space of a configuration: one variable per (employee, day, category) plus the posted families
type RosterModel struct {
	Config     Configuration
	Model      *sat.Model
	Objective  sat.LinearExpr // Empty when the run only enumerates
	Direction  sat.Direction
	Employees  []Employee
	Days       []Day
	Categories []Category
	Families   []FamilyCount

	indexer   indexer
	evaluator predicateEvaluator
	positions map[Category]int
}

type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build validates the configuration and composes the families selected by its profile.
// A *ConfigurationError is returned for local contradictions, before anything reaches a solver
func (builder *Builder) Build(ctx context.Context, config Configuration) (*RosterModel, error) {
	//** Validate input
	if err := Validate(config); err != nil {
		return nil, err
	}
	families, err := resolveFamilies(config.Profile)
	if err != nil {
		return nil, &ConfigurationError{Problems: []string{err.Error()}}
	}

	warnings, err := Diagnose(config)
	if err != nil {
		return nil, fmt.Errorf("cannot diagnose configuration: %w", err)
	}
	for _, warning := range warnings {
		builder.logger.Warn("veteran coverage looks unreachable", "detail", warning)
	}

	//** Extract attributes's domains
	totalEmployees, totalDays, totalCategories := len(config.Employees), config.Horizon, len(config.Categories)

	//** Initialize dependencies
	evaluator := newPredicateEvaluator(config)
	indexer := newIndexer(totalEmployees, totalDays, totalCategories)
	generator := newCellGenerator(totalEmployees, totalDays, totalCategories)

	//** Create variables in index order, so Var(i) is indexer.Index of its attributes
	model := sat.NewModel()
	for employee := range totalEmployees {
		for day := range totalDays {
			for category := range totalCategories {
				model.NewBoolVar(fmt.Sprintf("e%d_d%d_%v", config.Employees[employee].Id, day, config.Categories[category].Code()))
			}
		}
	}

	state := constraintState{
		config:     config,
		evaluator:  evaluator,
		indexer:    indexer,
		generator:  generator,
		employees:  totalEmployees,
		days:       totalDays,
		categories: totalCategories,
	}

	//** Generate families concurrently, post them in catalog order
	generated := make([][]sat.Constraint, len(families))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, entry := range families {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			generated[i] = entry.generate(state)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	counts := make([]FamilyCount, 0, len(families))
	for i, constraints := range generated {
		for _, constraint := range constraints {
			if err := model.Post(constraint); err != nil {
				return nil, err
			}
		}
		counts = append(counts, FamilyCount{Name: families[i].name, Constraints: len(constraints)})
	}

	roster := &RosterModel{
		Config:     config,
		Model:      model,
		Direction:  sat.Maximize,
		Employees:  config.Employees,
		Days:       config.Days(),
		Categories: config.Categories,
		Families:   counts,
		indexer:    indexer,
		evaluator:  evaluator,
		positions:  config.categoryPositions(),
	}

	//** Objective
	if config.Profile.Objective == MaximizeRequestsObjective {
		roster.Objective = requestsObjective(state)
		if len(roster.Objective) == 0 {
			builder.logger.Info("objective is vacuous, every request is pinned", "objective", config.Profile.Objective)
		}
	}

	builder.logger.Debug("roster model built",
		"variables", model.Variables(),
		"constraints", len(model.Constraints()),
		"families", lo.Map(counts, func(count FamilyCount, _ int) string { return count.Name }),
	)
	return roster, nil
}

// requestsObjective counts the satisfied non-pinned requests
func requestsObjective(state constraintState) sat.LinearExpr {
	cells := state.generator.ConstrainedCells([]func(cell []int) bool{
		func(cell []int) bool {
			employee, day, category := cell[0], cell[1], cell[2]

			return employee == unset ||
				day == unset ||
				category == unset ||

				// Actual predicate
				state.evaluator.Requested(employee, day, category)
		},
	})
	return sat.Sum(state.cellVars(cells)...)
}

// Var returns the variable of an (employee position, day, category) triple
func (roster *RosterModel) Var(employee, day int, category Category) (sat.Var, bool) {
	position, ok := roster.positions[category]
	if !ok || employee < 0 || employee >= len(roster.Employees) || day < 0 || day >= len(roster.Days) {
		return 0, false
	}
	return roster.indexer.Index(employee, day, position), true
}

// Assigned lists the categories set for the employee on the day
func (roster *RosterModel) Assigned(assignment sat.Assignment, employee, day int) []Category {
	return lo.Filter(roster.Categories, func(category Category, position int) bool {
		return assignment.Value(roster.indexer.Index(employee, day, position))
	})
}

// Cell returns the category the employee works on the day, or Off when none is set
func (roster *RosterModel) Cell(assignment sat.Assignment, employee, day int) Category {
	if assigned := roster.Assigned(assignment, employee, day); len(assigned) > 0 {
		return assigned[0]
	}
	return Off
}

// PinnedCell checks whether the employee's category on the day comes from a pinned request
func (roster *RosterModel) PinnedCell(employee, day int, category Category) bool {
	position, ok := roster.positions[category]
	return ok && roster.evaluator.Pinned(employee, day, position)
}

// Pin is a pinned request addressed by employee position
type Pin struct {
	Employee int
	Day      int
	Category Category
}

// Pins returns every distinct pinned request of the configuration
func (roster *RosterModel) Pins() []Pin {
	employees := roster.Config.employeePositions()
	pins := lo.FilterMap(roster.Config.Requests, func(request Request, _ int) (Pin, bool) {
		return Pin{Employee: employees[request.Employee], Day: request.Day, Category: request.Category}, request.Pinned
	})
	return lo.Uniq(pins)
}

func (roster *RosterModel) Veteran(employee int) bool {
	return roster.evaluator.Veteran(employee)
}

// Coverage returns the minimums of a category on a day; ok is false for uncovered categories
func (roster *RosterModel) Coverage(day int, category Category) (minimum, veterans int, exact, ok bool) {
	position, known := roster.positions[category]
	if !known {
		return 0, 0, false, false
	}
	return roster.evaluator.Coverage(day, position)
}

func (roster *RosterModel) Workload(employee int) (minimum, maximum int) {
	return roster.evaluator.Workload(employee)
}

func (roster *RosterModel) WorkCategories() []Category {
	return lo.Filter(roster.Categories, func(_ Category, position int) bool { return roster.evaluator.Works(position) })
}

func (roster *RosterModel) ActiveCategories() []Category {
	return roster.Config.ActiveCategories()
}

// HasFamily checks whether the family was posted
func (roster *RosterModel) HasFamily(name string) bool {
	return slices.ContainsFunc(roster.Families, func(count FamilyCount) bool { return count.Name == name })
}
