package roster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/samber/lo"
)

// VerificationError lists the rules a solution breaks
type VerificationError struct {
	Index      int
	Violations []string
}

func (err *VerificationError) Error() string {
	return fmt.Sprintf("solution %d breaks %d rules: %v", err.Index, len(err.Violations), strings.Join(err.Violations, "; "))
}

type verifier struct {
	roster     *model.RosterModel
	solution   Solution
	violations []string
}

func (v *verifier) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

// Verify re-checks a solution against the rules of every family posted in the roster model, working on the grid
// rather than on the constraints, and finally evaluates the raw assignment against the model itself
func Verify(roster *model.RosterModel, solution Solution) error {
	v := &verifier{roster: roster, solution: solution}

	checks := []struct {
		family string
		check  func()
	}{
		{model.CoverageFamily, v.coverage},
		{model.ExclusivityFamily, v.exclusivity},
		{model.AdjacencyFamily, v.adjacency},
		{model.ConsecutiveFamily, func() {
			window := roster.Config.Rest.ConsecutiveWindow
			v.windows(model.ConsecutiveFamily, window, window-1)
		}},
		{model.TwoWeekFamily, func() {
			v.windows(model.TwoWeekFamily, roster.Config.Rest.TwoWeekWindow, roster.Config.Rest.TwoWeekCap)
		}},
		{model.QuotaFamily, v.quota},
		{model.TotalDaysFamily, v.totalDays},
		{model.WorkloadFamily, v.workload},
		{model.PinningFamily, v.pinning},
	}
	for _, entry := range checks {
		if roster.HasFamily(entry.family) {
			entry.check()
		}
	}

	if err := roster.Model.Check(solution.Assignment); err != nil {
		v.addf("%v", err)
	}

	if len(v.violations) > 0 {
		return &VerificationError{Index: solution.Index, Violations: v.violations}
	}
	return nil
}

func (v *verifier) coverage() {
	for day := range v.roster.Days {
		for _, category := range v.roster.Categories {
			minimum, veterans, exact, ok := v.roster.Coverage(day, category)
			if !ok {
				continue
			}
			headcount := v.solution.Headcount[day][category]
			if headcount < minimum || (exact && headcount != minimum) {
				v.addf("day %d has %d on %v, expected %d", day, headcount, category, minimum)
			}
			if v.solution.Veterans[day][category] < veterans {
				v.addf("day %d has %d veterans on %v, expected %d", day, v.solution.Veterans[day][category], category, veterans)
			}
		}
	}
}

func (v *verifier) exclusivity() {
	for employee := range v.roster.Employees {
		for day := range v.roster.Days {
			if assigned := v.roster.Assigned(v.solution.Assignment, employee, day); len(assigned) > 1 {
				v.addf("employee %d has %v on day %d", v.roster.Employees[employee].Id, assigned, day)
			}
		}
	}
}

func (v *verifier) adjacency() {
	adjacency := v.roster.Config.Adjacency
	for employee, row := range v.solution.Grid {
		for day := range len(row) - 1 {
			if row[day] == adjacency.Before && row[day+1] == adjacency.After && !slices.Contains(adjacency.RelaxedDays, day) {
				v.addf("employee %d has %v on day %d and %v on day %d", v.roster.Employees[employee].Id, adjacency.Before, day, adjacency.After, day+1)
			}
		}
	}
}

// windows checks every full window of the given length through prefix sums of the active days
func (v *verifier) windows(family string, window, limit int) {
	for employee, row := range v.solution.Grid {
		prefix := make([]int, len(row)+1)
		for day, category := range row {
			prefix[day+1] = prefix[day] + lo.Ternary(category.Active(), 1, 0)
		}
		for from := 0; from+window <= len(row); from++ {
			if active := prefix[from+window] - prefix[from]; active > limit {
				v.addf("%v: employee %d is active %d days in %d-%d", family, v.roster.Employees[employee].Id, active, from, from+window-1)
			}
		}
	}
}

func (v *verifier) quota() {
	positions := lo.SliceToMap(lo.Range(len(v.roster.Employees)), func(employee int) (uint64, int) {
		return v.roster.Employees[employee].Id, employee
	})
	requested := make(map[[2]int]int)
	for _, request := range v.roster.Config.Requests {
		requested[[2]int{positions[request.Employee], int(request.Category)}]++
	}

	for employee := range v.roster.Employees {
		for _, category := range v.roster.Categories {
			if !slices.Contains(v.roster.Config.PinnedOnly, category) {
				continue
			}
			if tally, wanted := v.solution.Tally[employee][category], requested[[2]int{employee, int(category)}]; tally != wanted {
				v.addf("employee %d has %d days of %v, requested %d", v.roster.Employees[employee].Id, tally, category, wanted)
			}
		}
	}
}

func (v *verifier) totalDays() {
	for employee := range v.roster.Employees {
		classified := 0
		for day := range v.roster.Days {
			classified += len(v.roster.Assigned(v.solution.Assignment, employee, day))
		}
		if classified != len(v.roster.Days) {
			v.addf("employee %d has %d classified days out of %d", v.roster.Employees[employee].Id, classified, len(v.roster.Days))
		}
	}
}

func (v *verifier) workload() {
	work := v.roster.WorkCategories()
	for employee := range v.roster.Employees {
		worked := lo.SumBy(work, func(category model.Category) int { return v.solution.Tally[employee][category] })
		if minimum, maximum := v.roster.Workload(employee); worked < minimum || worked > maximum {
			v.addf("employee %d works %d days, expected [%d, %d]", v.roster.Employees[employee].Id, worked, minimum, maximum)
		}
	}
}

func (v *verifier) pinning() {
	for _, pin := range v.roster.Pins() {
		if actual := v.solution.Grid[pin.Employee][pin.Day]; actual != pin.Category {
			v.addf("employee %d is pinned to %v on day %d but has %v", v.roster.Employees[pin.Employee].Id, pin.Category, pin.Day, actual)
		}
	}
}
