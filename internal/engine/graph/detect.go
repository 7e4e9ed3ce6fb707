// # internal/engine/graph/detect.go
package graph

import "slices"

// FindDependencyChain returns the shortest module chain from -> ... -> to
// over the unreduced module graph. Neighbours are expanded in sorted order
// so the chain is deterministic.
func (a *Analyzer) FindDependencyChain(from, to string) ([]string, bool) {
	if _, ok := a.moduleGraph[from]; !ok {
		return nil, false
	}
	if _, ok := a.moduleGraph[to]; !ok {
		return nil, false
	}
	if from == to {
		return []string{from}, true
	}

	queue := []string{from}
	visited := map[string]bool{from: true}
	prev := make(map[string]string)

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range a.moduleGraph.Targets(curr) {
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = curr

			if next == to {
				path := []string{to}
				for node := to; node != from; {
					p, ok := prev[node]
					if !ok {
						return nil, false
					}
					path = append(path, p)
					node = p
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}

			queue = append(queue, next)
		}
	}

	return nil, false
}

// TransitiveDependents lists every module that reaches module through one or
// more includes, sorted.
func (a *Analyzer) TransitiveDependents(module string) []string {
	if _, ok := a.moduleGraph[module]; !ok {
		return nil
	}
	importedBy := make(map[string][]string, len(a.moduleGraph))
	for from, targets := range a.moduleGraph {
		for to := range targets {
			importedBy[to] = append(importedBy[to], from)
		}
	}

	seen := map[string]bool{module: true}
	queue := []string{module}
	var out []string
	for len(queue) > 0 {
		mod := queue[0]
		queue = queue[1:]
		for _, importer := range importedBy[mod] {
			if seen[importer] {
				continue
			}
			seen[importer] = true
			out = append(out, importer)
			queue = append(queue, importer)
		}
	}
	slices.Sort(out)
	return out
}
