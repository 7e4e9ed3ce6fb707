package graph

// TransitiveReduction drops every edge A->C for which C is also reachable
// from another direct dependency of A. Reachability is always taken from the
// input graph, never from the partially reduced copy, so the result does not
// depend on iteration order. The input is not modified.
func TransitiveReduction(edges ComponentGraph) ComponentGraph {
	reduced := edges.Clone()

	for node, direct := range edges {
		if len(direct) < 2 {
			continue
		}
		implied := transitiveDependencies(edges, direct)
		for dep := range direct {
			if implied[dep] {
				delete(reduced[node], dep)
			}
		}
	}

	return reduced
}

// transitiveDependencies collects everything reachable from the given
// components through at least one edge.
func transitiveDependencies(edges ComponentGraph, from map[int]bool) map[int]bool {
	reachable := make(map[int]bool)
	stack := make([]int, 0, len(from))
	for start := range from {
		stack = append(stack, start)
	}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range edges[curr] {
			if reachable[next] {
				continue
			}
			reachable[next] = true
			stack = append(stack, next)
		}
	}
	return reachable
}
