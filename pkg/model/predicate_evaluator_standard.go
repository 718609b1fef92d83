package model

import (
	"slices"

	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	config       Configuration
	coverage     map[int]CoverageRule // Coverage rule per category position
	pinnedOnly   []bool
	works        []bool
	requests     map[[2]int]int  // Requests per (employee, category)
	pinned       map[[3]int]bool // Pinned (employee, day, category) cells
	requested    map[[3]int]bool // Non-pinned (employee, day, category) cells
	relaxed      map[int]bool
	workloadLow  []int
	workloadHigh []int
}

func newPredicateEvaluator(config Configuration) predicateEvaluator {
	categoryPositions, employeePositions := config.categoryPositions(), config.employeePositions()

	evaluator := predicateEvaluatorStandard{
		config:    config,
		coverage:  make(map[int]CoverageRule),
		requests:  make(map[[2]int]int),
		pinned:    make(map[[3]int]bool),
		requested: make(map[[3]int]bool),
		relaxed:   lo.SliceToMap(config.Adjacency.RelaxedDays, func(day int) (int, bool) { return day, true }),
	}

	for _, rule := range coverageRules(config) {
		evaluator.coverage[categoryPositions[rule.Category]] = rule
	}

	workCategories := workloadCategories(config)
	evaluator.pinnedOnly = lo.Map(config.Categories, func(category Category, _ int) bool {
		return slices.Contains(config.PinnedOnly, category)
	})
	evaluator.works = lo.Map(config.Categories, func(category Category, _ int) bool {
		return slices.Contains(workCategories, category)
	})

	for _, request := range config.Requests {
		employee, category := employeePositions[request.Employee], categoryPositions[request.Category]
		cell := [3]int{employee, request.Day, category}
		evaluator.requests[[2]int{employee, category}]++
		if request.Pinned {
			evaluator.pinned[cell] = true
		} else {
			evaluator.requested[cell] = true
		}
	}

	evaluator.workloadLow, evaluator.workloadHigh = workloadBounds(config)
	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Veteran(employee int) bool {
	return evaluator.config.Employees[employee].Tier == Veteran
}

func (evaluator *predicateEvaluatorStandard) Active(category int) bool {
	return evaluator.config.Categories[category].Active()
}

func (evaluator *predicateEvaluatorStandard) Coverage(day, category int) (minimum, veterans int, exact, ok bool) {
	rule, ok := evaluator.coverage[category]
	if !ok {
		return 0, 0, false, false
	}
	minimum, veterans = rule.minimums(day)
	return minimum, veterans, rule.Exact, true
}

func (evaluator *predicateEvaluatorStandard) PinnedOnly(category int) bool {
	return evaluator.pinnedOnly[category]
}

func (evaluator *predicateEvaluatorStandard) Requests(employee, category int) int {
	return evaluator.requests[[2]int{employee, category}]
}

func (evaluator *predicateEvaluatorStandard) Pinned(employee, day, category int) bool {
	return evaluator.pinned[[3]int{employee, day, category}]
}

func (evaluator *predicateEvaluatorStandard) Requested(employee, day, category int) bool {
	return evaluator.requested[[3]int{employee, day, category}]
}

func (evaluator *predicateEvaluatorStandard) AdjacencyRelaxed(day int) bool {
	return evaluator.relaxed[day]
}

func (evaluator *predicateEvaluatorStandard) Works(category int) bool {
	return evaluator.works[category]
}

func (evaluator *predicateEvaluatorStandard) Workload(employee int) (minimum, maximum int) {
	return evaluator.workloadLow[employee], evaluator.workloadHigh[employee]
}

// coverageRules returns the configured rules, or a default rule per active category the solver is free to assign
func coverageRules(config Configuration) []CoverageRule {
	if len(config.Coverage) > 0 {
		return config.Coverage
	}
	return lo.FilterMap(config.Categories, func(category Category, _ int) (CoverageRule, bool) {
		return CoverageRule{Category: category}, category.Active() && !slices.Contains(config.PinnedOnly, category)
	})
}

func workloadCategories(config Configuration) []Category {
	if len(config.Workload.Categories) > 0 {
		return config.Workload.Categories
	}
	return lo.Map(coverageRules(config), func(rule CoverageRule, _ int) Category { return rule.Category })
}

// workloadBounds resolves the per-employee bounds of the configured mode.
// The fair mode splits the required staffing of the worked categories evenly: min is the largest count every employee can get, max leaves Slack on top
func workloadBounds(config Configuration) (low, high []int) {
	workload := config.Workload
	low, high = make([]int, len(config.Employees)), make([]int, len(config.Employees))

	baseLow, baseHigh := workload.Min, config.Horizon
	switch workload.Mode {
	case WorkloadExact:
		baseLow, baseHigh = workload.Target, workload.Target
	case WorkloadFair:
		baseLow = requiredStaffing(config) / max(len(config.Employees), 1)
		baseHigh = baseLow + workload.Slack
	default:
		if workload.Max != nil {
			baseHigh = *workload.Max
		}
	}

	for i, employee := range config.Employees {
		low[i], high[i] = baseLow, baseHigh
		bounds, ok := lo.Find(workload.Employees, func(bounds EmployeeWorkload) bool { return bounds.Employee == employee.Id })
		if !ok {
			continue
		}
		if bounds.Target != nil {
			low[i], high[i] = *bounds.Target, *bounds.Target
		}
		if bounds.Min != nil {
			low[i] = *bounds.Min
		}
		if bounds.Max != nil {
			high[i] = *bounds.Max
		}
	}
	return low, high
}

// requiredStaffing sums the staffing minimums of the worked categories over the horizon
func requiredStaffing(config Configuration) int {
	work := workloadCategories(config)
	required := 0
	for _, rule := range coverageRules(config) {
		if !slices.Contains(work, rule.Category) {
			continue
		}
		for day := range config.Horizon {
			minimum, _ := rule.minimums(day)
			required += minimum
		}
	}
	return required
}
