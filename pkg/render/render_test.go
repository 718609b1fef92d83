package render

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/roster"
	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func intPtr(value int) *int {
	return &value
}

// weekRoster is two employees over a week starting on Friday, March 1st 2024, with a pinned leave on the first day
func weekRoster(t *testing.T) (*model.RosterModel, []roster.Solution) {
	config := model.DefaultConfiguration()
	config.Name = "week"
	config.StartDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	config.Horizon = 7
	config.Categories = []model.Category{model.Off, model.Morning, model.AnnualLeave}
	config.Employees = []model.Employee{{Id: 1, Name: "Ana", Tier: model.Veteran}, {Id: 2, Name: "Bo", Tier: model.Novice}}
	config.Coverage = []model.CoverageRule{{Category: model.Morning, Minimum: intPtr(0), Veterans: intPtr(0)}}
	config.Requests = []model.Request{{Employee: 2, Day: 0, Category: model.AnnualLeave, Pinned: true}}
	config.Profile = model.Profile{Families: []string{model.ExclusivityFamily, model.PinningFamily}}

	rosterModel, err := model.NewBuilder(nil).Build(context.Background(), config)
	require.NoError(t, err)

	assignment := make(sat.Assignment, rosterModel.Model.Variables())
	set := func(employee, day int, category model.Category) {
		variable, ok := rosterModel.Var(employee, day, category)
		require.True(t, ok)
		assignment[variable-1] = true
	}
	set(0, 0, model.Morning)
	set(0, 1, model.Morning)
	set(1, 0, model.AnnualLeave)
	set(1, 2, model.Morning)

	collector := roster.NewCollector(rosterModel, roster.FirstK(2))
	collector.Collect(assignment)
	collector.Collect(assignment)
	return rosterModel, collector.Solutions()
}

func TestRows(t *testing.T) {
	//** Arrange
	rosterModel, solutions := weekRoster(t)

	//** Act
	table := Rows(rosterModel, solutions[0])

	//** Assert
	assert.Equal(t, "week-0", table.Title)
	require.Len(t, table.Rows, 2+2+2) // Headers, employees, Morning and AnnualLeave headcounts
	assert.Equal(t, []string{"Day", "", "Ana", "Bo", "Morning", "AnnualLeave"}, lo.Map(table.Rows, func(row Row, _ int) string { return row.Label }))

	texts := func(row Row) []string { return lo.Map(row.Cells, func(cell Cell, _ int) string { return cell.Text }) }
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "O", "M", "L"}, texts(table.Rows[0]))
	assert.Equal(t, []string{"Fri", "Sat", "Sun", "Mon", "Tue", "Wed", "Thu"}, texts(table.Rows[1])[:7])
	assert.Equal(t, []string{"M", "M", "O", "O", "O", "O", "O", "5", "2", "0"}, texts(table.Rows[2]))
	assert.Equal(t, []string{"L", "O", "M", "O", "O", "O", "O", "5", "1", "1"}, texts(table.Rows[3]))
	assert.Equal(t, []string{"1", "1", "1", "0", "0", "0", "0", "3"}, texts(table.Rows[4]))

	// Weekend columns are holidays, the pinned leave is flagged
	assert.True(t, table.Rows[0].Cells[1].Style.Holiday)
	assert.True(t, table.Rows[0].Cells[1].Style.Header)
	assert.False(t, table.Rows[0].Cells[0].Style.Holiday)
	assert.True(t, table.Rows[3].Cells[0].Style.Pinned)
	assert.False(t, table.Rows[2].Cells[0].Style.Pinned)
	assert.True(t, table.Rows[2].Cells[2].Style.Holiday)
	assert.True(t, table.Rows[2].Cells[7].Style.Total)
}

type failingSink struct {
	fail    int
	written []int
}

func (sink *failingSink) Write(table Table) error {
	if table.Index == sink.fail {
		return errors.New("disk full")
	}
	sink.written = append(sink.written, table.Index)
	return nil
}

func TestExportContinuesPastFailures(t *testing.T) {
	//** Arrange
	rosterModel, solutions := weekRoster(t)
	sink := &failingSink{fail: 0}

	//** Act
	err := Export(rosterModel, solutions, sink, nil)

	//** Assert
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Len(t, renderErr.Failures, 1)
	assert.ErrorContains(t, renderErr.Failures[0], "disk full")
	assert.Equal(t, []int{1}, sink.written)
}

func TestTerminalSink(t *testing.T) {
	rosterModel, solutions := weekRoster(t)
	var buffer bytes.Buffer

	err := NewTerminalSink(&buffer).Write(Rows(rosterModel, solutions[0]))

	require.NoError(t, err)
	assert.Contains(t, buffer.String(), "week-0")
	assert.Contains(t, buffer.String(), "Ana")
	assert.Contains(t, buffer.String(), "AnnualLeave")
}

func TestXLSXSink(t *testing.T) {
	//** Arrange
	rosterModel, solutions := weekRoster(t)
	sink := NewXLSXSink(t.TempDir())
	table := Rows(rosterModel, solutions[1])

	//** Act
	err := sink.Write(table)

	//** Assert
	require.NoError(t, err)
	file, err := excelize.OpenFile(sink.Path(table))
	require.NoError(t, err)
	defer file.Close()

	label, err := file.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Ana", label)
	code, err := file.GetCellValue(sheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "L", code)
}

func TestSQLiteSink(t *testing.T) {
	//** Arrange
	sink, err := OpenSQLiteSink(filepath.Join(t.TempDir(), "history", "rosters.db"))
	require.NoError(t, err)
	defer sink.Close()
	rosterModel, solutions := weekRoster(t)

	//** Act
	err = Export(rosterModel, solutions, sink, nil)

	//** Assert
	require.NoError(t, err)
	var rosters, pinned int
	require.NoError(t, sink.DB.QueryRow(`SELECT COUNT(*) FROM rosters`).Scan(&rosters))
	require.NoError(t, sink.DB.QueryRow(`SELECT COUNT(*) FROM cells WHERE pinned = 1`).Scan(&pinned))
	assert.Equal(t, 2, rosters)
	assert.Equal(t, 2, pinned)
}
