package model

type cellGenerator interface {
	// Attributes' order in the cell parameter is the following: Employee, Day, Category.
	// All the constraints must take into account that if the value of cell[i] is unset (-1) then the cell is not ready to be evaluated if this evaluation involves cell[i]
	//
	// Example:
	//
	//	generator := newCellGenerator(employees, days, categories)
	//
	//	cells := generator.ConstrainedCells([]func(cell []int) bool{
	//		func(cell []int) bool {
	//			// Verify "cell[2] == unset", since the predicate "evaluator.PinnedOnly(cell[2])" relies in this index
	//			return cell[2] == unset || evaluator.PinnedOnly(cell[2])
	//		},
	//	})
	ConstrainedCells(constraints []func(cell []int) bool) [][]int
}

const unset = -1

func newCellGenerator(employees, days, categories int) cellGenerator {
	return &cellGeneratorImplementation{employees, days, categories}
}
