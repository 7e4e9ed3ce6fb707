package graph

type topoFrame struct {
	node      int
	neighbors []int
	next      int
}

// TopologicalOrder lists components 0..count-1 so that every dependency
// precedes its dependents. It is the DFS postorder over edges with roots
// taken in index order; with no edges at all that is simply index order.
func TopologicalOrder(edges ComponentGraph, count int) []int {
	order := make([]int, 0, count)
	if edges.EdgeCount() == 0 {
		for i := 0; i < count; i++ {
			order = append(order, i)
		}
		return order
	}

	visited := make(map[int]bool, count)
	var frames []topoFrame
	for root := 0; root < count; root++ {
		if visited[root] {
			continue
		}
		visited[root] = true
		frames = append(frames, topoFrame{node: root, neighbors: edges.Targets(root)})

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			if top.next < len(top.neighbors) {
				w := top.neighbors[top.next]
				top.next++
				if !visited[w] {
					visited[w] = true
					frames = append(frames, topoFrame{node: w, neighbors: edges.Targets(w)})
				}
				continue
			}
			order = append(order, top.node)
			frames = frames[:len(frames)-1]
		}
	}
	return order
}

// Depths assigns each component the length of its longest dependency chain.
// order must list dependencies before dependents.
func Depths(edges ComponentGraph, order []int) (map[int]int, int) {
	depths := make(map[int]int, len(order))
	maxDepth := 0
	for _, comp := range order {
		depth := 0
		for dep := range edges[comp] {
			if d := depths[dep] + 1; d > depth {
				depth = d
			}
		}
		depths[comp] = depth
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return depths, maxDepth
}

// GroupByDepth buckets components by depth, leaf layer first, keeping the
// relative order of the input within each bucket.
func GroupByDepth(order []int, depths map[int]int, maxDepth int) [][]int {
	if len(order) == 0 {
		return nil
	}
	layers := make([][]int, maxDepth+1)
	for _, comp := range order {
		d := depths[comp]
		layers[d] = append(layers[d], comp)
	}
	return layers
}
