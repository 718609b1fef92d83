package model

import "github.com/limaJavier/rostering/pkg/sat"

// indexer interface is design to give a unique variable to a combination of assignment attributes and vice versa.
// Categories are addressed by their position in the configuration's category list
type indexer interface {
	// Returns the variable of the (employee, day, category) triple
	Index(employee, day, category int) sat.Var
	// Returns the (employee, day, category) triple of a variable
	Attributes(variable sat.Var) (employee, day, category int)
}

func newIndexer(employees, days, categories int) indexer {
	return &indexerImplementation{
		employees:  employees,
		days:       days,
		categories: categories,
	}
}
