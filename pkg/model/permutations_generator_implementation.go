package model

type cellGeneratorImplementation struct {
	employees, days, categories int
}

func (generator cellGeneratorImplementation) ConstrainedCells(constraints []func(cell []int) bool) [][]int {
	cells := make([][]int, 0)
	generator.constrainedCells(
		constraints,
		[]int{generator.employees, generator.days, generator.categories},
		0,
		[]int{unset, unset, unset},
		&cells,
	)
	return cells
}

func (generator cellGeneratorImplementation) constrainedCells(
	constraints []func(cell []int) bool,
	domains []int,
	currentDomain int,
	cell []int,
	cells *[][]int) {

	if currentDomain >= len(domains) {
		cellCopy := make([]int, len(cell))
		copy(cellCopy, cell)
		*cells = append(*cells, cellCopy)
		return
	}

	for i := range domains[currentDomain] {
		cell[currentDomain] = i
		constraintViolated := false
		for _, constraint := range constraints {
			if !constraint(cell) {
				constraintViolated = true
				break
			}
		}

		if constraintViolated {
			continue
		}

		generator.constrainedCells(constraints, domains, currentDomain+1, cell, cells)
	}

	cell[currentDomain] = unset
}
