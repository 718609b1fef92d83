package model

// Employees, days and categories are addressed by position: employee i is config.Employees[i], category j is config.Categories[j]
type predicateEvaluator interface {
	// Checks whether the employee is a veteran
	Veteran(employee int) bool

	// Checks whether the category counts toward rest and workload caps
	Active(category int) bool

	// Returns the staffing and veteran minimums of the category on the day; ok is false when the category has no coverage rule
	Coverage(day, category int) (minimum, veterans int, exact, ok bool)

	// Checks whether the solver may only assign the category as requested
	PinnedOnly(category int) bool

	// Returns how many days the employee requested the category (pinned or not)
	Requests(employee, category int) int

	// Checks whether the employee is pinned to the category on the day
	Pinned(employee, day, category int) bool

	// Checks whether the employee asked, without pinning, for the category on the day
	Requested(employee, day, category int) bool

	// Checks whether the adjacency rule is lifted between the day and the next one
	AdjacencyRelaxed(day int) bool

	// Checks whether the category counts as work for the workload balance
	Works(category int) bool

	// Returns the workload bounds of the employee
	Workload(employee int) (minimum, maximum int)
}
