package model

import (
	"fmt"
	"slices"

	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
)

const (
	CoverageFamily    = "coverage"
	ExclusivityFamily = "exclusivity"
	AdjacencyFamily   = "adjacency"
	ConsecutiveFamily = "consecutive"
	TwoWeekFamily     = "two-week"
	QuotaFamily       = "quota"
	TotalDaysFamily   = "total-days"
	WorkloadFamily    = "workload"
	OverridesFamily   = "overrides"
	PinningFamily     = "pinning"
)

const (
	MinimalProfile = "minimal"
	FullProfile    = "full"
)

const (
	NoObjective               = ""
	MaximizeRequestsObjective = "maximize-requests"
)

type family struct {
	name        string
	description string
	generate    func(state constraintState) []sat.Constraint
}

// catalog lists every constraint family in the order the builder posts them.
// Pinning comes last so it sees the final request set after quota and coverage
var catalog = []family{
	{CoverageFamily, "per day and covered category: staffing >= minimum and veterans >= minimum", coverageConstraints},
	{ExclusivityFamily, "per employee and day: at most one category", exclusivityConstraints},
	{AdjacencyFamily, "no Before category on a day followed by the After category on the next one", adjacencyConstraints},
	{ConsecutiveFamily, "every full window of W days: active days < W", consecutiveConstraints},
	{TwoWeekFamily, "every full two-week window: active days <= cap", twoWeekConstraints},
	{QuotaFamily, "per employee and pinned-only category: assigned days = requested days", quotaConstraints},
	{TotalDaysFamily, "per employee: classified days = horizon", totalDaysConstraints},
	{WorkloadFamily, "per employee: worked days within bounds (range, exact or fair mode)", workloadConstraints},
	{OverridesFamily, "personal linear rules, in configuration order", overrideConstraints},
	{PinningFamily, "every pinned request is assigned", pinningConstraints},
}

var profiles = map[string][]string{
	MinimalProfile: {CoverageFamily, ExclusivityFamily, WorkloadFamily},
	FullProfile:    lo.Map(catalog, func(entry family, _ int) string { return entry.name }),
}

var objectives = []string{NoObjective, MaximizeRequestsObjective}

type FamilyInfo struct {
	Name        string
	Description string
	Profiles    []string
}

// Catalog describes the available constraint families in posting order
func Catalog() []FamilyInfo {
	return lo.Map(catalog, func(entry family, _ int) FamilyInfo {
		names := lo.Filter(lo.Keys(profiles), func(profile string, _ int) bool {
			return slices.Contains(profiles[profile], entry.name)
		})
		slices.Sort(names)
		return FamilyInfo{Name: entry.name, Description: entry.description, Profiles: names}
	})
}

// Objectives lists the accepted objective names, the empty one meaning plain enumeration
func Objectives() []string {
	return slices.Clone(objectives)
}

// resolveFamilies selects the families of a profile (explicit names take precedence over the profile name) in catalog order
func resolveFamilies(profile Profile) ([]family, error) {
	names := profile.Families
	if len(names) == 0 {
		var ok bool
		if names, ok = profiles[profile.Name]; !ok {
			return nil, fmt.Errorf("unknown profile \"%v\"", profile.Name)
		}
	}

	for _, name := range names {
		if !lo.ContainsBy(catalog, func(entry family) bool { return entry.name == name }) {
			return nil, fmt.Errorf("unknown constraint family \"%v\"", name)
		}
	}

	return lo.Filter(catalog, func(entry family, _ int) bool {
		return slices.Contains(names, entry.name)
	}), nil
}
