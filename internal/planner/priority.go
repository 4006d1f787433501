package planner

import "github.com/dukerupert/choreboard/internal/model"

// Assignment pairs a chore with the priority its rank maps to.
type Assignment struct {
	ChoreID  int64
	Priority int
}

// PriorityFor maps the zero-based rank i of n ordered chores onto the 1..5
// priority scale in five equal buckets. With fewer than five chores each
// rank gets its own priority, starting at 1.
func PriorityFor(i, n int) int {
	if n <= 0 {
		return model.DefaultPriority
	}
	var p int
	if n < 5 {
		p = i + 1
	} else {
		// ceil(5(i+1)/n)
		p = (5*(i+1) + n - 1) / n
	}
	return min(max(p, model.MinPriority), model.MaxPriority)
}

// MapPriorities assigns a priority to each id by its position.
func MapPriorities(ids []int64) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{ChoreID: id, Priority: PriorityFor(i, len(ids))}
	}
	return out
}

// NormalizeOrdering makes ordered a permutation of input. Ids not in input
// are dropped, repeats keep their first position and input ids that are
// missing are appended in input order.
func NormalizeOrdering(ordered, input []int64) []int64 {
	known := make(map[int64]bool, len(input))
	for _, id := range input {
		known[id] = true
	}

	out := make([]int64, 0, len(input))
	seen := make(map[int64]bool, len(input))
	for _, id := range ordered {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range input {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
