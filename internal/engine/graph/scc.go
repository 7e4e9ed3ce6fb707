package graph

import (
	"strings"

	"incdeps/internal/core/errors"
	"incdeps/internal/shared/util"
)

type tarjanFrame struct {
	node      string
	neighbors []string
	next      int
}

// stronglyConnectedComponents runs Tarjan's algorithm with an explicit call
// stack. Roots and neighbours are visited in sorted order; components are
// numbered in the order they close, members listed in pop order.
func stronglyConnectedComponents(g ModuleGraph) (map[string]int, []Component) {
	nodes := util.SortedKeys(g)

	index := 0
	stack := make([]string, 0, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	indexByNode := make(map[string]int, len(nodes))
	lowLink := make(map[string]int, len(nodes))
	componentOf := make(map[string]int, len(nodes))
	components := make([]Component, 0)

	var frames []tarjanFrame
	discover := func(v string) {
		indexByNode[v] = index
		lowLink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true
		frames = append(frames, tarjanFrame{node: v, neighbors: g.Targets(v)})
	}

	for _, root := range nodes {
		if _, seen := indexByNode[root]; seen {
			continue
		}
		discover(root)

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			v := top.node

			if top.next < len(top.neighbors) {
				w := top.neighbors[top.next]
				top.next++
				if _, seen := indexByNode[w]; !seen {
					discover(w)
				} else if onStack[w] && indexByNode[w] < lowLink[v] {
					lowLink[v] = indexByNode[w]
				}
				continue
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].node
				if lowLink[v] < lowLink[parent] {
					lowLink[parent] = lowLink[v]
				}
			}

			if lowLink[v] != indexByNode[v] {
				continue
			}

			members := make([]string, 0, 1)
			for {
				last := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[last] = false
				members = append(members, last)
				if last == v {
					break
				}
			}
			compID := len(components)
			components = append(components, Component{
				Index:   compID,
				Name:    strings.Join(members, "|"),
				Members: members,
			})
			for _, n := range members {
				componentOf[n] = compID
			}
		}
	}

	return componentOf, components
}

// condense projects module edges onto components. Every component is a key;
// edges inside one component are dropped.
func condense(g ModuleGraph, componentOf map[string]int, count int) (ComponentGraph, error) {
	edges := make(ComponentGraph, count)
	for i := 0; i < count; i++ {
		edges[i] = make(map[int]bool)
	}

	for _, from := range util.SortedKeys(g) {
		fromComp, ok := componentOf[from]
		if !ok {
			return nil, errors.AddContext(errors.New(errors.CodeInternal, "module missing from component map"), errors.CtxModule, from)
		}
		for to := range g[from] {
			toComp, ok := componentOf[to]
			if !ok {
				return nil, errors.AddContext(errors.New(errors.CodeInternal, "dependency missing from component map"), errors.CtxModule, to)
			}
			if fromComp != toComp {
				edges[fromComp][toComp] = true
			}
		}
	}
	return edges, nil
}
