// # internal/engine/graph/graph_test.go
package graph

import (
	"testing"

	"incdeps/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name string, headers ...string) *parser.File {
	return &parser.File{Name: name, IncludedHeaders: headers}
}

// chain: A includes B.h and C.h, B includes C.h
func chainFiles() []*parser.File {
	return []*parser.File{
		file("src/A.cpp", "B.h", "C.h"),
		file("include/A.h"),
		file("src/B.cpp", "C.h"),
		file("include/B.h"),
		file("src/C.cpp"),
		file("include/C.h"),
	}
}

// one cycle A -> B -> C -> A plus an isolated D
func cycleFiles() []*parser.File {
	return []*parser.File{
		file("A.cpp", "B.h"),
		file("A.h"),
		file("B.cpp", "C.h"),
		file("B.h"),
		file("C.cpp", "A.h"),
		file("C.h"),
		file("D.cpp", "D.h"),
		file("D.h"),
	}
}

// two cycles {A,B} and {C,D} linked by A -> C
func linkedCycleFiles() []*parser.File {
	return []*parser.File{
		file("A.cpp", "B.h", "C.h"),
		file("A.h"),
		file("B.cpp", "A.h"),
		file("B.h"),
		file("C.cpp", "D.h"),
		file("C.h"),
		file("D.cpp", "C.h"),
		file("D.h"),
	}
}

func mustAnalyze(t *testing.T, files []*parser.File) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(files)
	require.NoError(t, err)
	return a
}

func componentByMembers(t *testing.T, a *Analyzer, members ...string) Component {
	t.Helper()
	idx, ok := a.ComponentOf(members[0])
	require.Truef(t, ok, "module %s has no component", members[0])
	c, ok := a.Component(idx)
	require.True(t, ok)
	assert.ElementsMatch(t, members, c.Members)
	return c
}

func TestModuleKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "a.cpp", want: "a"},
		{in: "src/net/socket.cpp", want: "socket"},
		{in: `include\net\socket.h`, want: "socket"},
		{in: "archive.tar.h", want: "archive.tar"},
		{in: "Makefile", want: "Makefile"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, ModuleKey(tc.in), "input %s", tc.in)
	}
}

func TestAnalyzer_ChainWithoutCycle(t *testing.T) {
	a := mustAnalyze(t, chainFiles())

	require.Equal(t, 3, a.ComponentCount())
	for _, c := range a.Components() {
		assert.Len(t, c.Members, 1)
	}

	idxA, _ := a.ComponentOf("A")
	idxB, _ := a.ComponentOf("B")
	idxC, _ := a.ComponentOf("C")

	full := a.ComponentEdges()
	assert.True(t, full[idxA][idxB])
	assert.True(t, full[idxA][idxC])
	assert.True(t, full[idxB][idxC])

	reduced := a.ReducedEdges()
	assert.Equal(t, map[int]bool{idxB: true}, reduced[idxA])
	assert.Equal(t, map[int]bool{idxC: true}, reduced[idxB])
	assert.Empty(t, reduced[idxC])

	depth := func(i int) int {
		d, ok := a.Depth(i)
		require.True(t, ok)
		return d
	}
	assert.Equal(t, 0, depth(idxC))
	assert.Equal(t, 1, depth(idxB))
	assert.Equal(t, 2, depth(idxA))
	assert.Equal(t, 2, a.MaxDepth())
	assert.Equal(t, [][]int{{idxC}, {idxB}, {idxA}}, a.Layers())
	assert.Equal(t, []int{idxC, idxB, idxA}, a.TopologicalOrder())
}

func TestAnalyzer_OneCycleAndIsolate(t *testing.T) {
	a := mustAnalyze(t, cycleFiles())

	require.Equal(t, 2, a.ComponentCount())
	abc := componentByMembers(t, a, "A", "B", "C")
	d := componentByMembers(t, a, "D")

	assert.Equal(t, "C|B|A", abc.Name)
	assert.Equal(t, "D", d.Name)
	assert.Zero(t, a.ComponentEdges().EdgeCount())
	assert.Zero(t, a.ReducedEdges().EdgeCount())

	for _, idx := range []int{abc.Index, d.Index} {
		depth, ok := a.Depth(idx)
		require.True(t, ok)
		assert.Equal(t, 0, depth)
	}
	assert.Equal(t, []int{0, 1}, a.TopologicalOrder())
	require.Len(t, a.Cycles(), 1)
	assert.Equal(t, abc.Index, a.Cycles()[0].Index)
}

func TestAnalyzer_TwoLinkedCycles(t *testing.T) {
	a := mustAnalyze(t, linkedCycleFiles())

	require.Equal(t, 2, a.ComponentCount())
	ab := componentByMembers(t, a, "A", "B")
	cd := componentByMembers(t, a, "C", "D")

	edges := a.ComponentEdges()
	assert.Equal(t, 1, edges.EdgeCount())
	assert.True(t, edges[ab.Index][cd.Index])

	order := a.TopologicalOrder()
	assert.Less(t, indexOf(order, cd.Index), indexOf(order, ab.Index))

	dCD, _ := a.Depth(cd.Index)
	dAB, _ := a.Depth(ab.Index)
	assert.Equal(t, 0, dCD)
	assert.Equal(t, 1, dAB)
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	a := mustAnalyze(t, nil)

	assert.Zero(t, a.ModuleCount())
	assert.Zero(t, a.ComponentCount())
	assert.Empty(t, a.TopologicalOrder())
	assert.Empty(t, a.Layers())
	assert.Zero(t, a.MaxDepth())
	assert.Equal(t, Summary{}, a.Summary())
}

func TestAnalyzer_UnresolvedIncludesAreDropped(t *testing.T) {
	a := mustAnalyze(t, []*parser.File{
		file("main.cpp", "stdio.h", "vendor/json.hpp", "util.h"),
		file("util.h"),
	})

	assert.Equal(t, ModuleGraph{"main": {"util": true}, "util": {}}, a.ModuleEdges())
	assert.Equal(t, []UnresolvedInclude{
		{File: "main.cpp", Header: "stdio.h"},
		{File: "main.cpp", Header: "vendor/json.hpp"},
	}, a.Unresolved())
	assert.Equal(t, 2, a.Summary().Unresolved)
}

func TestAnalyzer_EveryFileIsAModule(t *testing.T) {
	a := mustAnalyze(t, []*parser.File{
		file("lonely.cpp"),
		file("self.cpp", "self.h"),
		file("self.h"),
	})

	edges := a.ModuleEdges()
	require.Contains(t, edges, "lonely")
	require.Contains(t, edges, "self")
	assert.Empty(t, edges["self"], "a header and its source never produce a self edge")
	assert.Equal(t, 2, a.ComponentCount())
}

func TestAnalyzer_AccessorsReturnCopies(t *testing.T) {
	a := mustAnalyze(t, chainFiles())

	edges := a.ModuleEdges()
	delete(edges, "A")
	assert.Contains(t, a.ModuleEdges(), "A")

	comps := a.Components()
	comps[0].Members[0] = "mutated"
	assert.NotEqual(t, "mutated", a.Components()[0].Members[0])

	order := a.TopologicalOrder()
	order[0] = 99
	assert.NotEqual(t, 99, a.TopologicalOrder()[0])

	layers := a.Layers()
	layers[0][0] = 99
	assert.NotEqual(t, 99, a.Layers()[0][0])
}

func TestAnalyzer_WithResolver(t *testing.T) {
	exact := func(files []*parser.File) HeaderResolver {
		return exactResolver(files)
	}
	a, err := NewAnalyzer([]*parser.File{
		file("a.cpp", "b.h"),
		file("sub/b.h"),
	}, WithResolver(exact))
	require.NoError(t, err)

	assert.Empty(t, a.ModuleEdges()["a"])
	assert.Len(t, a.Unresolved(), 1)
}

type exactResolver []*parser.File

func (r exactResolver) Resolve(header string) (*parser.File, bool) {
	for _, f := range r {
		if f.Name == header {
			return f, true
		}
	}
	return nil, false
}

func TestAnalyzer_MatchComponents(t *testing.T) {
	a := mustAnalyze(t, linkedCycleFiles())
	ab := componentByMembers(t, a, "A", "B")

	assert.Equal(t, []int{ab.Index}, a.MatchComponents("A"))
	assert.Len(t, a.MatchComponents(""), 2)
	assert.Empty(t, a.MatchComponents("zzz"))
}

func TestAnalyzer_ModuleMetrics(t *testing.T) {
	a := mustAnalyze(t, chainFiles())
	m := a.ModuleMetrics()

	assert.Equal(t, 2, m["A"].FanOut)
	assert.Equal(t, 0, m["A"].FanIn)
	assert.Equal(t, 2, m["A"].Depth)
	assert.Equal(t, 2, m["C"].FanIn)
	assert.Equal(t, 0, m["C"].Depth)
}

func indexOf(order []int, v int) int {
	for i, x := range order {
		if x == v {
			return i
		}
	}
	return -1
}
