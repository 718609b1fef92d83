package roster

import (
	"slices"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/sat"
)

// Solution is a materialized assignment. It is never modified once collected
type Solution struct {
	Index      int                // Position in the solver's delivery order
	Assignment sat.Assignment     // Raw variable values
	Grid       [][]model.Category // Category per employee per day, Off when nothing is set
	Pinned     [][]bool           // Whether the cell comes from a pinned request
	Tally      []map[model.Category]int
	Headcount  []map[model.Category]int // Employees per day per active category
	Veterans   []map[model.Category]int // Veterans per day per active category
	Objective  int
}

// Collector is the solver callback target: it counts every delivered assignment and materializes the kept ones.
// It does no I/O, rendering happens once the search is over
type Collector struct {
	roster    *model.RosterModel
	keep      KeepSet
	keepLast  bool
	count     int
	solutions []Solution
	last      *Solution
}

func NewCollector(roster *model.RosterModel, keep KeepSet) *Collector {
	return &Collector{
		roster:    roster,
		keep:      keep,
		solutions: make([]Solution, 0),
	}
}

// KeepLast also materializes the latest delivered assignment, the best one when optimizing
func (collector *Collector) KeepLast() *Collector {
	collector.keepLast = true
	return collector
}

// Collect has the sat.Callback signature
func (collector *Collector) Collect(assignment sat.Assignment) {
	index := collector.count
	collector.count++

	kept := collector.keep.Keeps(index)
	if !kept && !collector.keepLast {
		return
	}

	solution := materialize(collector.roster, index, assignment)
	if kept {
		collector.solutions = append(collector.solutions, solution)
	}
	if collector.keepLast {
		collector.last = &solution
	}
}

// Count returns how many assignments were delivered
func (collector *Collector) Count() int {
	return collector.count
}

func (collector *Collector) Solutions() []Solution {
	return collector.solutions
}

// Last returns the latest delivered assignment when KeepLast is set
func (collector *Collector) Last() (Solution, bool) {
	if collector.last == nil {
		return Solution{}, false
	}
	return *collector.last, true
}

func materialize(roster *model.RosterModel, index int, assignment sat.Assignment) Solution {
	employees, days := len(roster.Employees), len(roster.Days)
	active := roster.ActiveCategories()

	solution := Solution{
		Index:      index,
		Assignment: slices.Clone(assignment),
		Grid:       make([][]model.Category, employees),
		Pinned:     make([][]bool, employees),
		Tally:      make([]map[model.Category]int, employees),
		Headcount:  make([]map[model.Category]int, days),
		Veterans:   make([]map[model.Category]int, days),
		Objective:  roster.Objective.Evaluate(assignment),
	}

	for day := range days {
		solution.Headcount[day] = make(map[model.Category]int, len(active))
		solution.Veterans[day] = make(map[model.Category]int, len(active))
		for _, category := range active {
			solution.Headcount[day][category] = 0
			solution.Veterans[day][category] = 0
		}
	}

	for employee := range employees {
		solution.Grid[employee] = make([]model.Category, days)
		solution.Pinned[employee] = make([]bool, days)
		solution.Tally[employee] = make(map[model.Category]int, len(roster.Categories))
		for _, category := range roster.Categories {
			solution.Tally[employee][category] = 0
		}

		for day := range days {
			category := roster.Cell(assignment, employee, day)
			solution.Grid[employee][day] = category
			solution.Pinned[employee][day] = roster.PinnedCell(employee, day, category)
			solution.Tally[employee][category]++

			if category.Active() {
				solution.Headcount[day][category]++
				if roster.Veteran(employee) {
					solution.Veterans[day][category]++
				}
			}
		}
	}
	return solution
}
