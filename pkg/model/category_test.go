package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestCategoryLabels(t *testing.T) {
	categories := AllCategories()

	assert.Len(t, categories, int(categoryCount))
	assert.Len(t, lo.Uniq(lo.Map(categories, func(category Category, _ int) string { return category.Code() })), len(categories))
	assert.Len(t, lo.Uniq(lo.Map(categories, func(category Category, _ int) string { return category.String() })), len(categories))
	for _, category := range categories {
		assert.NotEmpty(t, category.Code())
		assert.Equal(t, category != Off, category.Active())
	}
	assert.Equal(t, "?", categoryCount.Code())
}

func TestParseCategory(t *testing.T) {
	scenarios := map[string]Category{
		"off":            Off,
		"Morning":        Morning,
		"M":              Morning,
		"afternoonShift": Afternoon,
		" L ":            AnnualLeave,
		"trip":           BusinessTrip,
		"DutyD":          DutyD,
	}

	for input, expected := range scenarios {
		category, err := ParseCategory(input)
		assert.NoError(t, err, input)
		assert.Equal(t, expected, category, input)
	}

	_, err := ParseCategory("night")
	assert.Error(t, err)
}
