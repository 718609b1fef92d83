package model

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
)

// ConfigurationError lists every local contradiction found in a configuration before any solving takes place
type ConfigurationError struct {
	Problems []string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid roster configuration: %v", strings.Join(err.Problems, "; "))
}

type validator struct {
	config     Configuration
	employees  map[uint64]bool
	categories map[Category]bool
	problems   []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) day(context string, day int) {
	if day < 0 || day >= v.config.Horizon {
		v.addf("%v: day %d is outside the horizon [0, %d)", context, day, v.config.Horizon)
	}
}

func (v *validator) category(context string, category Category) bool {
	if !category.Valid() {
		v.addf("%v: invalid category %d", context, int(category))
		return false
	} else if !v.categories[category] {
		v.addf("%v: category %v is not part of the roster", context, category)
		return false
	}
	return true
}

func (v *validator) employee(context string, employee uint64) bool {
	if !v.employees[employee] {
		v.addf("%v: unknown employee %d", context, employee)
		return false
	}
	return true
}

// Validate checks the configuration for local contradictions; the returned error, if any, is a *ConfigurationError
func Validate(config Configuration) error {
	v := &validator{
		config:     config,
		employees:  make(map[uint64]bool),
		categories: make(map[Category]bool),
	}

	v.validateCalendar()
	v.validateEmployees()
	v.validateCoverage()
	v.validateRules()
	v.validateWorkload()
	v.validateRequests()
	v.validateOverrides()
	v.validateProfile()

	if len(v.problems) > 0 {
		return &ConfigurationError{Problems: v.problems}
	}
	return nil
}

func (v *validator) validateCalendar() {
	if v.config.Horizon <= 0 {
		v.addf("horizon must be positive, got %d", v.config.Horizon)
	}
	for _, day := range v.config.HolidayDays {
		v.day("holidayDays", day)
	}

	if len(v.config.Categories) == 0 {
		v.addf("at least one category is required")
	}
	for _, category := range v.config.Categories {
		if !category.Valid() {
			v.addf("categories: invalid category %d", int(category))
		} else if v.categories[category] {
			v.addf("categories: %v is listed twice", category)
		}
		v.categories[category] = true
	}
}

func (v *validator) validateEmployees() {
	if len(v.config.Employees) == 0 {
		v.addf("at least one employee is required")
	}
	for _, employee := range v.config.Employees {
		if v.employees[employee.Id] {
			v.addf("employees: id %d is used twice", employee.Id)
		}
		v.employees[employee.Id] = true
		if employee.Tier != Veteran && employee.Tier != Novice {
			v.addf("employee %d: unknown tier \"%v\"", employee.Id, employee.Tier)
		}
	}
}

func (v *validator) validateCoverage() {
	covered := make(map[Category]bool)
	for _, rule := range v.config.Coverage {
		context := fmt.Sprintf("coverage of %v", rule.Category)
		if !v.category(context, rule.Category) {
			continue
		}
		if !rule.Category.Active() {
			v.addf("%v: Off cannot be covered", context)
		}
		if covered[rule.Category] {
			v.addf("%v: category has more than one rule", context)
		}
		covered[rule.Category] = true

		if (rule.Minimum != nil && *rule.Minimum < 0) || (rule.Veterans != nil && *rule.Veterans < 0) {
			v.addf("%v: minimums cannot be negative", context)
		}
		for _, override := range rule.Days {
			v.day(context, override.Day)
			if (override.Minimum != nil && *override.Minimum < 0) || (override.Veterans != nil && *override.Veterans < 0) {
				v.addf("%v: minimums on day %d cannot be negative", context, override.Day)
			}
		}
	}
}

func (v *validator) validateRules() {
	rest := v.config.Rest
	if rest.ConsecutiveWindow <= 0 || rest.TwoWeekWindow <= 0 {
		v.addf("rest windows must be positive, got %d and %d", rest.ConsecutiveWindow, rest.TwoWeekWindow)
	}
	if rest.TwoWeekCap < 0 {
		v.addf("rest: two-week cap cannot be negative, got %d", rest.TwoWeekCap)
	}

	if !v.config.Adjacency.Before.Valid() || !v.config.Adjacency.After.Valid() {
		v.addf("adjacency: invalid categories")
	}
	for _, day := range v.config.Adjacency.RelaxedDays {
		v.day("adjacency", day)
	}
}

func (v *validator) validateWorkload() {
	workload := v.config.Workload
	switch workload.Mode {
	case WorkloadRange:
		if workload.Max != nil && *workload.Max < workload.Min {
			v.addf("workload: min %d exceeds max %d", workload.Min, *workload.Max)
		}
	case WorkloadExact:
		if workload.Target < 0 {
			v.addf("workload: target cannot be negative, got %d", workload.Target)
		}
	case WorkloadFair:
		if workload.Slack < 0 {
			v.addf("workload: slack cannot be negative, got %d", workload.Slack)
		}
	default:
		v.addf("workload: unknown mode \"%v\"", workload.Mode)
	}

	for _, category := range workload.Categories {
		v.category("workload", category)
	}
	for _, bounds := range workload.Employees {
		context := fmt.Sprintf("workload of employee %d", bounds.Employee)
		v.employee(context, bounds.Employee)
		if bounds.Min != nil && bounds.Max != nil && *bounds.Min > *bounds.Max {
			v.addf("%v: min %d exceeds max %d", context, *bounds.Min, *bounds.Max)
		}
	}
}

func (v *validator) validateRequests() {
	pins := make(map[[2]uint64]Category)
	for _, request := range v.config.Requests {
		context := fmt.Sprintf("request of employee %d on day %d", request.Employee, request.Day)
		v.employee(context, request.Employee)
		v.day(context, request.Day)
		v.category(context, request.Category)
		if !request.Pinned {
			continue
		}

		key := [2]uint64{request.Employee, uint64(request.Day)}
		if previous, ok := pins[key]; ok && previous != request.Category {
			v.addf("employee %d is pinned to both %v and %v on day %d", request.Employee, previous, request.Category, request.Day)
			continue
		}
		pins[key] = request.Category
	}
}

// interval is a closed range of integers; math.MinInt/math.MaxInt stand for unbounded ends
type interval struct {
	low, high int
}

func relationInterval(relation sat.Relation, bound int) interval {
	switch relation {
	case sat.EQ:
		return interval{bound, bound}
	case sat.LE:
		return interval{math.MinInt, bound}
	case sat.LT:
		return interval{math.MinInt, bound - 1}
	case sat.GE:
		return interval{bound, math.MaxInt}
	default: // GT
		return interval{bound + 1, math.MaxInt}
	}
}

func (i interval) intersect(other interval) interval {
	return interval{max(i.low, other.low), min(i.high, other.high)}
}

func (i interval) empty() bool {
	return i.low > i.high
}

// validateOverrides rejects overrides that contradict the pinned requests or each other.
// An override over (employee, days, categories) can only reach sums between the pinned cells of its scope and the days not pinned elsewhere
func (v *validator) validateOverrides() {
	pinned := make(map[[2]uint64]Category)
	for _, request := range v.config.Requests {
		if request.Pinned {
			pinned[[2]uint64{request.Employee, uint64(request.Day)}] = request.Category
		}
	}

	type scope struct {
		employee   uint64
		from, to   int
		categories string
	}
	seen := make(map[scope]interval)

	for i, override := range v.config.Overrides {
		context := fmt.Sprintf("override %d (%v)", i, override.Description)
		valid := v.employee(context, override.Employee)
		for _, category := range override.Categories {
			valid = v.category(context, category) && valid
		}
		from, to := override.span(v.config.Horizon)
		if from > to || from < 0 || to >= v.config.Horizon {
			v.addf("%v: invalid day range [%d, %d]", context, from, to)
			valid = false
		}
		if override.Relation == 0 {
			v.addf("%v: relation is missing", context)
			valid = false
		} else if !override.Relation.Valid() {
			v.addf("%v: invalid relation %d", context, int(override.Relation))
			valid = false
		}
		if !valid {
			continue
		}

		categories := override.Categories
		if len(categories) == 0 {
			categories = v.config.ActiveCategories()
		}

		reachable := interval{0, 0}
		for day := from; day <= to; day++ {
			category, ok := pinned[[2]uint64{override.Employee, uint64(day)}]
			switch {
			case ok && slices.Contains(categories, category):
				reachable.low++
				reachable.high++
			case !ok:
				reachable.high++
			}
		}

		wanted := relationInterval(override.Relation, override.Bound)
		if wanted.intersect(reachable).empty() {
			v.addf("%v: employee %d can only reach [%d, %d] but the override requires %v %d", context, override.Employee, reachable.low, reachable.high, override.Relation, override.Bound)
			continue
		}

		sorted := slices.Clone(categories)
		slices.Sort(sorted)
		key := scope{override.Employee, from, to, fmt.Sprint(sorted)}
		if previous, ok := seen[key]; ok {
			if previous.intersect(wanted).empty() {
				v.addf("%v: contradicts an earlier override on the same days and categories", context)
				continue
			}
			wanted = previous.intersect(wanted)
		}
		seen[key] = wanted
	}
}

func (v *validator) validateProfile() {
	profile := v.config.Profile
	if len(profile.Families) == 0 {
		if _, ok := profiles[profile.Name]; !ok {
			v.addf("profile: unknown profile \"%v\"", profile.Name)
		}
	}
	for _, name := range profile.Families {
		if _, ok := lo.Find(catalog, func(entry family) bool { return entry.name == name }); !ok {
			v.addf("profile: unknown constraint family \"%v\"", name)
		}
	}
	if !lo.Contains(objectives, profile.Objective) {
		v.addf("profile: unknown objective \"%v\"", profile.Objective)
	}

	families, err := resolveFamilies(profile)
	if err == nil && lo.ContainsBy(families, func(entry family) bool { return entry.name == TotalDaysFamily }) && !v.categories[Off] {
		v.addf("profile: the %v family needs the Off category to classify rest days", TotalDaysFamily)
	}
}
