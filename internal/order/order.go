// Package order provides sibling-rank arithmetic for ordered hierarchies.
package order

// Next returns the rank for an item appended after the given sibling ranks:
// one past the maximum, or 0 when the group is empty.
func Next(orders []int) int {
	if len(orders) == 0 {
		return 0
	}
	max := orders[0]
	for _, o := range orders[1:] {
		if o > max {
			max = o
		}
	}
	return max + 1
}

// Distinct reports whether all ranks in a sibling group are unique.
func Distinct(orders []int) bool {
	seen := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		if _, dup := seen[o]; dup {
			return false
		}
		seen[o] = struct{}{}
	}
	return true
}
