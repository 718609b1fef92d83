package render

import (
	"fmt"
	"strconv"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/roster"
)

// Style flags let each sink decide how to draw a cell
type Style struct {
	Header  bool
	Pinned  bool // The cell comes from a pinned request
	Holiday bool // The cell lies in a holiday column
	Total   bool
}

type Cell struct {
	Text  string
	Style Style
}

type Row struct {
	Label string
	Cells []Cell
}

// Table is the labeled form of one solution
type Table struct {
	Title string
	Index int
	Rows  []Row
}

// Rows lays a solution out as: day numbers, weekday abbreviations, one row per employee
// (codes then per-category totals) and one headcount row per active category
func Rows(rosterModel *model.RosterModel, solution roster.Solution) Table {
	days := rosterModel.Days
	totals := rosterModel.Categories

	table := Table{
		Title: fmt.Sprintf("%v-%d", titleOf(rosterModel), solution.Index),
		Index: solution.Index,
		Rows:  make([]Row, 0, 2+len(rosterModel.Employees)+len(rosterModel.ActiveCategories())),
	}

	//** Headers
	dayRow, weekdayRow := Row{Label: "Day"}, Row{Label: ""}
	for _, day := range days {
		style := Style{Header: true, Holiday: day.Holiday}
		dayRow.Cells = append(dayRow.Cells, Cell{Text: strconv.Itoa(day.Date.Day()), Style: style})
		weekdayRow.Cells = append(weekdayRow.Cells, Cell{Text: day.Weekday.String()[:3], Style: style})
	}
	for _, category := range totals {
		dayRow.Cells = append(dayRow.Cells, Cell{Text: category.Code(), Style: Style{Header: true, Total: true}})
		weekdayRow.Cells = append(weekdayRow.Cells, Cell{Text: "", Style: Style{Header: true, Total: true}})
	}
	table.Rows = append(table.Rows, dayRow, weekdayRow)

	//** Employees
	for employee, row := range solution.Grid {
		employeeRow := Row{Label: rosterModel.Employees[employee].Name}
		for day, category := range row {
			employeeRow.Cells = append(employeeRow.Cells, Cell{
				Text:  category.Code(),
				Style: Style{Pinned: solution.Pinned[employee][day], Holiday: days[day].Holiday},
			})
		}
		for _, category := range totals {
			employeeRow.Cells = append(employeeRow.Cells, Cell{Text: strconv.Itoa(solution.Tally[employee][category]), Style: Style{Total: true}})
		}
		table.Rows = append(table.Rows, employeeRow)
	}

	//** Headcounts
	for _, category := range rosterModel.ActiveCategories() {
		headcountRow := Row{Label: category.String()}
		sum := 0
		for day := range days {
			count := solution.Headcount[day][category]
			sum += count
			headcountRow.Cells = append(headcountRow.Cells, Cell{Text: strconv.Itoa(count), Style: Style{Total: true, Holiday: days[day].Holiday}})
		}
		headcountRow.Cells = append(headcountRow.Cells, Cell{Text: strconv.Itoa(sum), Style: Style{Total: true}})
		table.Rows = append(table.Rows, headcountRow)
	}
	return table
}

func titleOf(rosterModel *model.RosterModel) string {
	if rosterModel.Config.Name == "" {
		return "roster"
	}
	return rosterModel.Config.Name
}
