package model

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type veteranSlot struct {
	category int
	seat     int
}

// Diagnose looks for days whose veteran minimums cannot be met by the available veterans, matching
// veteran seats to veterans that are not pinned to another category that day.
// The findings are warnings: the solver stays the authority on infeasibility
func Diagnose(config Configuration) ([]string, error) {
	evaluator := newPredicateEvaluator(config)
	veterans := lo.Filter(lo.Range(len(config.Employees)), func(employee int, _ int) bool { return evaluator.Veteran(employee) })

	warnings := make([]string, 0)
	for day := range config.Horizon {
		slots := make([]veteranSlot, 0)
		for category := range config.Categories {
			_, required, _, ok := evaluator.Coverage(day, category)
			if !ok {
				continue
			}
			for seat := range required {
				slots = append(slots, veteranSlot{category, seat})
			}
		}
		if len(slots) == 0 {
			continue
		}

		matched, err := matchVeterans(evaluator, day, len(config.Categories), veterans, slots)
		if err != nil {
			return nil, err
		}
		if matched < len(slots) {
			warnings = append(warnings, fmt.Sprintf("day %d needs %d veteran seats but at most %d can be filled", day, len(slots), matched))
		}
	}
	return warnings, nil
}

func matchVeterans(evaluator predicateEvaluator, day, categories int, veterans []int, slots []veteranSlot) (int, error) {
	if len(veterans) == 0 {
		return 0, nil
	}

	// A veteran can take a seat unless a pin sends them to another category that day
	neighbors := func(veteranAny any, slotAny any) (bool, error) {
		veteran := veteranAny.(int)
		slot := slotAny.(veteranSlot)

		for category := range categories {
			if category != slot.category && evaluator.Pinned(veteran, day, category) {
				return false, nil
			}
		}
		return true, nil
	}

	veteransAny, slotsAny := lo.Map(veterans, func(veteran int, _ int) any { return veteran }), lo.Map(slots, func(slot veteranSlot, _ int) any { return slot })

	graph, err := bipartitegraph.NewBipartiteGraph(veteransAny, slotsAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}
