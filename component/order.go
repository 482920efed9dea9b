package component

import (
	"fmt"
	"slices"
	"strings"
)

// sortByDependencies returns the batch positions of components in an order
// where every component comes after the in-batch components it depends on.
// Among components that are ready at the same time, the one given first
// wins, so unrelated components keep their input order. Dependencies on IDs
// outside the batch do not constrain the order.
func sortByDependencies(components []Component, deps [][]ID) ([]int, error) {
	position := make(map[ID]int, len(components))
	for i, c := range components {
		position[c.ID()] = i
	}

	// dependents[a] lists every b that must come after a.
	dependents := make([][]int, len(components))
	indegree := make([]int, len(components))
	for b, c := range components {
		for _, id := range deps[b] {
			if id == c.ID() {
				return nil, fmt.Errorf("%w: %s", ErrSelfDependency, id)
			}
			a, ok := position[id]
			if !ok {
				continue
			}
			dependents[a] = append(dependents[a], b)
			indegree[b]++
		}
	}

	var ready []int
	for i := range components {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, len(components))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, b := range dependents[next] {
			indegree[b]--
			if indegree[b] == 0 {
				at, _ := slices.BinarySearch(ready, b)
				ready = slices.Insert(ready, at, b)
			}
		}
	}

	if len(order) < len(components) {
		return nil, orderConflict(components, deps, position, indegree)
	}
	return order, nil
}

// orderConflict names one dependency cycle among the components the sort
// could not place. Every unplaced component still has an unplaced
// dependency, so following those edges must revisit a component.
func orderConflict(components []Component, deps [][]ID, position map[ID]int, indegree []int) error {
	start := slices.IndexFunc(indegree, func(n int) bool { return n > 0 })

	seen := make(map[int]int)
	var path []int
	for current := start; ; {
		if at, ok := seen[current]; ok {
			path = path[at:]
			break
		}
		seen[current] = len(path)
		path = append(path, current)

		for _, id := range deps[current] {
			if p, ok := position[id]; ok && indegree[p] > 0 {
				current = p
				break
			}
		}
	}

	if len(path) == 2 {
		return fmt.Errorf("%w: %s and %s depend on each other",
			ErrComponentOrder, components[path[0]].ID(), components[path[1]].ID())
	}

	names := make([]string, 0, len(path)+1)
	for _, i := range path {
		names = append(names, string(components[i].ID()))
	}
	names = append(names, names[0])
	return fmt.Errorf("%w: dependency cycle %s", ErrComponentOrder, strings.Join(names, " -> "))
}
