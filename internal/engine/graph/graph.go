// # internal/engine/graph/graph.go
package graph

import (
	"path"
	"slices"

	"incdeps/internal/shared/util"
)

// ModuleGraph maps a module key to the set of module keys it depends on.
type ModuleGraph map[string]map[string]bool

// ComponentGraph maps a component index to the set of component indices it
// depends on.
type ComponentGraph map[int]map[int]bool

// Component is one strongly connected component of the module graph.
type Component struct {
	Index   int
	Name    string   // members joined with "|" in discovery order
	Members []string // discovery (stack pop) order
}

func (c Component) IsCycle() bool {
	return len(c.Members) > 1
}

func (c Component) clone() Component {
	c.Members = append([]string(nil), c.Members...)
	return c
}

// UnresolvedInclude is a header reference that matched no scanned file.
type UnresolvedInclude struct {
	File   string
	Header string
}

type ModuleMetrics struct {
	Component int
	Depth     int
	FanIn     int
	FanOut    int
}

// ModuleKey derives the module identity from a file name: the base name
// without its last extension, so "src/net/socket.cpp" and
// "include/socket.h" are the same module.
func ModuleKey(name string) string {
	base := util.BaseName(name)
	return base[:len(base)-len(path.Ext(base))]
}

func (g ModuleGraph) ensure(key string) {
	if _, ok := g[key]; !ok {
		g[key] = make(map[string]bool)
	}
}

func (g ModuleGraph) Clone() ModuleGraph {
	c := make(ModuleGraph, len(g))
	for from, targets := range g {
		set := make(map[string]bool, len(targets))
		for to := range targets {
			set[to] = true
		}
		c[from] = set
	}
	return c
}

func (g ModuleGraph) EdgeCount() int {
	n := 0
	for _, targets := range g {
		n += len(targets)
	}
	return n
}

// Targets returns the dependencies of a module in sorted order.
func (g ModuleGraph) Targets(module string) []string {
	return util.SortedKeys(g[module])
}

func (g ComponentGraph) Clone() ComponentGraph {
	c := make(ComponentGraph, len(g))
	for from, targets := range g {
		set := make(map[int]bool, len(targets))
		for to := range targets {
			set[to] = true
		}
		c[from] = set
	}
	return c
}

func (g ComponentGraph) EdgeCount() int {
	n := 0
	for _, targets := range g {
		n += len(targets)
	}
	return n
}

// Targets returns the dependencies of a component in ascending index order.
func (g ComponentGraph) Targets(component int) []int {
	return util.SortedKeys(g[component])
}

// HasPath reports whether to is reachable from from over one or more edges.
func (g ComponentGraph) HasPath(from, to int) bool {
	seen := make(map[int]bool)
	stack := g.Targets(from)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr == to {
			return true
		}
		if seen[curr] {
			continue
		}
		seen[curr] = true
		stack = append(stack, g.Targets(curr)...)
	}
	return false
}

func (g ComponentGraph) Equal(other ComponentGraph) bool {
	if len(g) != len(other) {
		return false
	}
	for from, targets := range g {
		otherTargets, ok := other[from]
		if !ok || len(targets) != len(otherTargets) {
			return false
		}
		for to := range targets {
			if !otherTargets[to] {
				return false
			}
		}
	}
	return true
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, layer := range layers {
		out[i] = slices.Clone(layer)
	}
	return out
}
