package model

import (
	"time"

	"github.com/limaJavier/rostering/pkg/sat"
)

func intPtr(value int) *int {
	return &value
}

// smallConfiguration is a full-profile week for three employees where employee 1 is the only veteran
func smallConfiguration() Configuration {
	config := DefaultConfiguration()
	config.Name = "small"
	config.StartDate = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC) // Monday
	config.Horizon = 7
	config.Categories = []Category{Off, Morning, Afternoon, AnnualLeave}
	config.Employees = []Employee{
		{Id: 1, Name: "Ana", Tier: Veteran},
		{Id: 2, Name: "Bo", Tier: Novice},
		{Id: 3, Name: "Cy", Tier: Novice},
	}
	config.Coverage = []CoverageRule{
		{Category: Morning, Minimum: intPtr(1), Veterans: intPtr(1)},
		{Category: Afternoon, Minimum: intPtr(1), Veterans: intPtr(0)},
	}
	config.Rest = Rest{ConsecutiveWindow: 3, TwoWeekWindow: 5, TwoWeekCap: 4}
	config.Workload = Workload{Mode: WorkloadRange, Min: 1, Max: intPtr(5)}
	config.Requests = []Request{
		{Employee: 2, Day: 0, Category: AnnualLeave, Pinned: true},
		{Employee: 3, Day: 3, Category: Morning},
	}
	config.Overrides = []Override{
		{Employee: 1, Description: "no afternoons", Categories: []Category{Afternoon}, Relation: sat.LE, Bound: 0},
	}
	config.Profile = Profile{Name: FullProfile, Objective: MaximizeRequestsObjective}
	return config
}
