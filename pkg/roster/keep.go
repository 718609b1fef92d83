package roster

import "slices"

// KeepSet decides which solution indices (0-based, in delivery order) get materialized
type KeepSet interface {
	Keeps(index int) bool
}

type firstK int

// FirstK keeps the first k solutions
func FirstK(k int) KeepSet {
	return firstK(k)
}

func (k firstK) Keeps(index int) bool {
	return index < int(k)
}

type indices []int

// Indices keeps exactly the given solution indices
func Indices(values ...int) KeepSet {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return indices(slices.Compact(sorted))
}

func (set indices) Keeps(index int) bool {
	_, found := slices.BinarySearch(set, index)
	return found
}
