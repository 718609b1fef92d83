package model

import (
	"fmt"
	"strings"
)

// Category classifies what an employee does on a given day
type Category int

const (
	Off Category = iota
	Morning
	Afternoon
	BusinessTrip
	Training
	AnnualLeave
	DutyD
	categoryCount
)

var (
	categoryNames = [...]string{
		Off:          "Off",
		Morning:      "Morning",
		Afternoon:    "Afternoon",
		BusinessTrip: "BusinessTrip",
		Training:     "Training",
		AnnualLeave:  "AnnualLeave",
		DutyD:        "DutyD",
	}
	// Codes printed in the roster grid
	categoryCodes = [...]string{
		Off:          "O",
		Morning:      "M",
		Afternoon:    "A",
		BusinessTrip: "B",
		Training:     "T",
		AnnualLeave:  "L",
		DutyD:        "D",
	}
	categoryAliases = map[string]Category{
		"rest":           Off,
		"morningshift":   Morning,
		"afternoonshift": Afternoon,
		"trip":           BusinessTrip,
		"leave":          AnnualLeave,
		"duty":           DutyD,
	}
)

// Both tables must have exactly one entry per category, otherwise these index expressions do not compile
var (
	_ = [1]struct{}{}[len(categoryNames)-int(categoryCount)]
	_ = [1]struct{}{}[len(categoryCodes)-int(categoryCount)]
)

func AllCategories() []Category {
	categories := make([]Category, 0, categoryCount)
	for category := range categoryCount {
		categories = append(categories, category)
	}
	return categories
}

func (category Category) Valid() bool {
	return category >= 0 && category < categoryCount
}

func (category Category) String() string {
	if !category.Valid() {
		return fmt.Sprintf("Category(%d)", int(category))
	}
	return categoryNames[category]
}

func (category Category) Code() string {
	if !category.Valid() {
		return "?"
	}
	return categoryCodes[category]
}

// Active categories count toward rest and workload caps
func (category Category) Active() bool {
	return category != Off
}

// ParseCategory accepts a category name, its grid code or a known alias, case-insensitively
func ParseCategory(str string) (Category, error) {
	str = strings.TrimSpace(str)
	for category := range categoryCount {
		if strings.EqualFold(str, categoryNames[category]) || str == categoryCodes[category] {
			return category, nil
		}
	}
	if category, ok := categoryAliases[strings.ToLower(str)]; ok {
		return category, nil
	}
	return 0, fmt.Errorf("unknown category \"%v\"", str)
}
