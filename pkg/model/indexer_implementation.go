package model

import "github.com/limaJavier/rostering/pkg/sat"

type indexerImplementation struct {
	employees  int
	days       int
	categories int
}

func (indexer *indexerImplementation) Index(employee, day, category int) sat.Var {
	return sat.Var(category + indexer.categories*day + indexer.categories*indexer.days*employee + 1)
}

func (indexer *indexerImplementation) Attributes(variable sat.Var) (employee, day, category int) {
	index := int(variable) - 1
	category = index % indexer.categories
	index = index / indexer.categories

	day = index % indexer.days
	index = index / indexer.days

	employee = index % indexer.employees

	return employee, day, category
}
