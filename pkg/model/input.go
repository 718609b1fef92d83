package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMinimumStaffing   = 2
	DefaultMinimumVeterans   = 1
	DefaultConsecutiveWindow = 6
	DefaultTwoWeekWindow     = 14
	DefaultTwoWeekCap        = 10
	DefaultWorkloadSlack     = 3
	dateLayout               = "2006-01-02"
)

type Tier string

const (
	Veteran Tier = "veteran"
	Novice  Tier = "novice"
)

type Employee struct {
	Id   uint64
	Name string
	Tier Tier
}

type Day struct {
	Index   int
	Date    time.Time
	Weekday time.Weekday
	Holiday bool
}

type Request struct {
	Employee uint64
	Day      int
	Category Category
	Pinned   bool
}

// CoverageOverride replaces the category's minimums on a single day (e.g. one person on a given date)
type CoverageOverride struct {
	Day      int
	Minimum  *int
	Veterans *int
}

type CoverageRule struct {
	Category Category
	Minimum  *int // Defaults to DefaultMinimumStaffing
	Veterans *int // Defaults to DefaultMinimumVeterans
	Exact    bool // Staffing must equal the minimum instead of reaching it
	Days     []CoverageOverride
}

type Rest struct {
	ConsecutiveWindow int `mapstructure:"consecutiveWindow"` // No employee may be active on every day of a window this long
	TwoWeekWindow     int `mapstructure:"twoWeekWindow"`
	TwoWeekCap        int `mapstructure:"twoWeekCap"`
}

// Adjacency forbids working Before on a day and After on the next one (afternoon followed by morning)
type Adjacency struct {
	Before      Category
	After       Category
	RelaxedDays []int `mapstructure:"relaxedDays"` // Days d for which the pair (d, d+1) is not constrained
}

type WorkloadMode string

const (
	WorkloadRange WorkloadMode = "range"
	WorkloadExact WorkloadMode = "exact"
	WorkloadFair  WorkloadMode = "fair" // Floor of the required shifts per employee, plus Slack
)

type EmployeeWorkload struct {
	Employee uint64
	Min      *int
	Max      *int
	Target   *int
}

type Workload struct {
	Mode       WorkloadMode
	Categories []Category // Categories counted as work; defaults to the covered categories
	Min        int
	Max        *int // Defaults to the horizon
	Target     int
	Slack      int
	Employees  []EmployeeWorkload
}

// Override is a personal rule: sum over [From, To] x Categories of the employee's assignments compared against Bound
type Override struct {
	Employee    uint64
	Description string
	Categories  []Category // Defaults to the active categories
	From        *int
	To          *int
	Relation    sat.Relation
	Bound       int
}

type Profile struct {
	Name      string
	Families  []string
	Objective string
}

type Configuration struct {
	Name        string
	StartDate   time.Time `mapstructure:"startDate"`
	Horizon     int
	Holidays    []time.Time
	HolidayDays []int      `mapstructure:"holidayDays"`
	Categories  []Category // Categories with decision variables; defaults to every category
	PinnedOnly  []Category `mapstructure:"pinnedOnly"` // Categories the solver may only assign as requested
	Employees   []Employee
	Coverage    []CoverageRule
	Rest        Rest
	Adjacency   Adjacency
	Workload    Workload
	Requests    []Request
	Overrides   []Override
	Profile     Profile
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Categories: AllCategories(),
		PinnedOnly: []Category{BusinessTrip, Training, AnnualLeave, DutyD},
		Rest: Rest{
			ConsecutiveWindow: DefaultConsecutiveWindow,
			TwoWeekWindow:     DefaultTwoWeekWindow,
			TwoWeekCap:        DefaultTwoWeekCap,
		},
		Adjacency: Adjacency{Before: Afternoon, After: Morning},
		Workload:  Workload{Mode: WorkloadRange, Slack: DefaultWorkloadSlack},
		Profile:   Profile{Name: FullProfile},
	}
}

// ConfigurationFromFile reads a JSON or YAML (by extension) roster profile
func ConfigurationFromFile(file string) (Configuration, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Configuration{}, err
	}

	var inputMap map[string]any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &inputMap)
	default:
		err = json.Unmarshal(bytes, &inputMap)
	}
	if err != nil {
		return Configuration{}, fmt.Errorf("cannot parse %v: %w", file, err)
	}

	return DecodeConfiguration(inputMap)
}

// DecodeConfiguration decodes a generic map over DefaultConfiguration, so absent keys keep their defaults
func DecodeConfiguration(input map[string]any) (Configuration, error) {
	config := DefaultConfiguration()
	defaults := config
	config.Categories, config.PinnedOnly = nil, nil // Decoded lists replace the defaults instead of merging into them

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			categoryHook,
			relationHook,
			mapstructure.StringToTimeHookFunc(dateLayout),
		),
		Result: &config,
	})
	if err != nil {
		return Configuration{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return Configuration{}, fmt.Errorf("cannot decode configuration: %w", err)
	}

	if config.Categories == nil {
		config.Categories = defaults.Categories
	}
	if config.PinnedOnly == nil {
		config.PinnedOnly = defaults.PinnedOnly
	}
	config.Employees = lo.Map(config.Employees, func(employee Employee, _ int) Employee {
		employee.Tier = Tier(strings.ToLower(string(employee.Tier)))
		if employee.Tier == "" {
			employee.Tier = Novice
		}
		return employee
	})
	return config, nil
}

func categoryHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(Category(0)) || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseCategory(data.(string))
}

func relationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(sat.Relation(0)) || from.Kind() != reflect.String {
		return data, nil
	}
	return sat.ParseRelation(data.(string))
}

// Days derives the calendar of the horizon; weekends and configured holidays are flagged
func (config Configuration) Days() []Day {
	holidayDates := lo.SliceToMap(config.Holidays, func(date time.Time) (string, bool) {
		return date.Format(dateLayout), true
	})

	return lo.Times(config.Horizon, func(index int) Day {
		date := config.StartDate.AddDate(0, 0, index)
		weekday := date.Weekday()
		return Day{
			Index:   index,
			Date:    date,
			Weekday: weekday,
			Holiday: weekday == time.Saturday || weekday == time.Sunday ||
				holidayDates[date.Format(dateLayout)] ||
				lo.Contains(config.HolidayDays, index),
		}
	})
}

// ActiveCategories returns the categories of the configuration that count toward caps, in configuration order
func (config Configuration) ActiveCategories() []Category {
	return lo.Filter(config.Categories, func(category Category, _ int) bool { return category.Active() })
}

func (rule CoverageRule) minimums(day int) (minimum, veterans int) {
	minimum, veterans = DefaultMinimumStaffing, DefaultMinimumVeterans
	if rule.Minimum != nil {
		minimum = *rule.Minimum
	}
	if rule.Veterans != nil {
		veterans = *rule.Veterans
	}
	for _, override := range rule.Days {
		if override.Day != day {
			continue
		}
		if override.Minimum != nil {
			minimum = *override.Minimum
		}
		if override.Veterans != nil {
			veterans = *override.Veterans
		}
	}
	return minimum, veterans
}

func (override Override) span(horizon int) (from, to int) {
	from, to = 0, horizon-1
	if override.From != nil {
		from = *override.From
	}
	if override.To != nil {
		to = *override.To
	}
	return from, to
}

func (config Configuration) categoryPositions() map[Category]int {
	positions := make(map[Category]int, len(config.Categories))
	for i, category := range config.Categories {
		positions[category] = i
	}
	return positions
}

func (config Configuration) employeePositions() map[uint64]int {
	positions := make(map[uint64]int, len(config.Employees))
	for i, employee := range config.Employees {
		positions[employee.Id] = i
	}
	return positions
}
