package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonProfile = `{
	"name": "march",
	"startDate": "2024-03-01",
	"horizon": 7,
	"holidays": ["2024-03-05"],
	"holidayDays": [6],
	"categories": ["Off", "M", "afternoon"],
	"employees": [
		{"id": 1, "name": "Ana", "tier": "Veteran"},
		{"id": 2, "name": "Bo"}
	],
	"coverage": [{"category": "Morning", "minimum": 1, "days": [{"day": 2, "minimum": 0}]}],
	"rest": {"twoWeekCap": 8},
	"overrides": [{"employee": 1, "description": "no afternoons", "categories": ["Afternoon"], "relation": "<=", "bound": 0}],
	"profile": {"name": "minimal", "objective": "maximize-requests"}
}`

const yamlProfile = `
name: march
startDate: "2024-03-01"
horizon: 7
categories: [Off, Morning, Afternoon]
employees:
  - {id: 1, name: Ana, tier: veteran}
  - {id: 2, name: Bo, tier: novice}
workload:
  mode: exact
  target: 3
requests:
  - {employee: 2, day: 1, category: leave, pinned: true}
profile:
  families: [coverage, exclusivity]
`

func writeProfile(t *testing.T, name, content string) string {
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestConfigurationFromJson(t *testing.T) {
	//** Arrange
	file := writeProfile(t, "profile.json", jsonProfile)

	//** Act
	config, err := ConfigurationFromFile(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "march", config.Name)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), config.StartDate)
	assert.Equal(t, []Category{Off, Morning, Afternoon}, config.Categories)
	assert.Equal(t, []Tier{Veteran, Novice}, []Tier{config.Employees[0].Tier, config.Employees[1].Tier})
	require.Len(t, config.Coverage, 1)
	minimum, veterans := config.Coverage[0].minimums(0)
	assert.Equal(t, [2]int{1, DefaultMinimumVeterans}, [2]int{minimum, veterans})
	minimum, _ = config.Coverage[0].minimums(2)
	assert.Zero(t, minimum)
	assert.Equal(t, Rest{ConsecutiveWindow: DefaultConsecutiveWindow, TwoWeekWindow: DefaultTwoWeekWindow, TwoWeekCap: 8}, config.Rest)
	assert.Equal(t, sat.LE, config.Overrides[0].Relation)
	assert.Equal(t, WorkloadRange, config.Workload.Mode)
	assert.Equal(t, DefaultConfiguration().PinnedOnly, config.PinnedOnly)
	assert.Equal(t, Profile{Name: MinimalProfile, Objective: MaximizeRequestsObjective}, config.Profile)
}

func TestConfigurationFromYaml(t *testing.T) {
	//** Arrange
	file := writeProfile(t, "profile.yaml", yamlProfile)

	//** Act
	config, err := ConfigurationFromFile(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), config.StartDate)
	assert.Equal(t, WorkloadExact, config.Workload.Mode)
	assert.Equal(t, 3, config.Workload.Target)
	assert.Equal(t, []Request{{Employee: 2, Day: 1, Category: AnnualLeave, Pinned: true}}, config.Requests)
	assert.Equal(t, []string{CoverageFamily, ExclusivityFamily}, config.Profile.Families)
	assert.Equal(t, FullProfile, config.Profile.Name)
}

func TestConfigurationRejectsUnknownCategory(t *testing.T) {
	_, err := DecodeConfiguration(map[string]any{"categories": []any{"Night"}})

	assert.ErrorContains(t, err, "Night")
}

func TestDays(t *testing.T) {
	//** Arrange
	file := writeProfile(t, "profile.json", jsonProfile)
	config, err := ConfigurationFromFile(file)
	require.NoError(t, err)

	//** Act
	days := config.Days()

	//** Assert
	require.Len(t, days, 7)
	assert.Equal(t, time.Friday, days[0].Weekday)
	holidays := make([]int, 0)
	for _, day := range days {
		if day.Holiday {
			holidays = append(holidays, day.Index)
		}
	}
	// The weekend, the configured date and the configured index
	assert.Equal(t, []int{1, 2, 4, 6}, holidays)
}
