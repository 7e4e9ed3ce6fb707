package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"incdeps/internal/engine/parser"
	"incdeps/internal/shared/observability"
)

type options struct {
	resolver ResolverFactory
}

type Option func(*options)

// WithResolver swaps the header resolution policy.
func WithResolver(factory ResolverFactory) Option {
	return func(o *options) {
		if factory != nil {
			o.resolver = factory
		}
	}
}

// Analyzer holds the fully derived dependency model of one file set. It is
// built once by NewAnalyzer and never mutated, so concurrent readers need no
// locking. Accessors return copies.
type Analyzer struct {
	fileCount      int
	moduleGraph    ModuleGraph
	unresolved     []UnresolvedInclude
	components     []Component
	componentOf    map[string]int
	componentEdges ComponentGraph
	reducedEdges   ComponentGraph
	topoOrder      []int
	depths         map[int]int
	maxDepth       int
	layers         [][]int
}

// Summary is the scalar view of an analysis used by reports and history.
type Summary struct {
	Files          int
	Modules        int
	ModuleEdges    int
	Components     int
	Cycles         int
	ComponentEdges int
	ReducedEdges   int
	MaxDepth       int
	Unresolved     int
}

// NewAnalyzer runs Build -> SCC -> Reduce -> Sort -> Layer over files. It
// either returns a complete, mutually consistent model or an error.
func NewAnalyzer(files []*parser.File, opts ...Option) (*Analyzer, error) {
	o := options{resolver: NewSuffixResolver}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Analyzer{fileCount: len(files)}

	stage := time.Now()
	a.moduleGraph, a.unresolved = BuildModuleGraph(files, o.resolver(files))
	stage = observeStage("build", stage)

	a.componentOf, a.components = stronglyConnectedComponents(a.moduleGraph)
	edges, err := condense(a.moduleGraph, a.componentOf, len(a.components))
	if err != nil {
		return nil, fmt.Errorf("condense module graph: %w", err)
	}
	a.componentEdges = edges
	stage = observeStage("scc", stage)

	a.reducedEdges = TransitiveReduction(a.componentEdges)
	stage = observeStage("reduce", stage)

	a.topoOrder = TopologicalOrder(a.reducedEdges, len(a.components))
	a.depths, a.maxDepth = Depths(a.reducedEdges, a.topoOrder)
	a.layers = GroupByDepth(a.topoOrder, a.depths, a.maxDepth)
	observeStage("layer", stage)

	a.publishMetrics()
	return a, nil
}

func observeStage(name string, start time.Time) time.Time {
	now := time.Now()
	observability.AnalysisDuration.WithLabelValues(name).Observe(now.Sub(start).Seconds())
	return now
}

func (a *Analyzer) publishMetrics() {
	observability.GraphModules.Set(float64(len(a.moduleGraph)))
	observability.GraphEdges.Set(float64(a.moduleGraph.EdgeCount()))
	observability.GraphComponents.Set(float64(len(a.components)))
	observability.GraphCycles.Set(float64(len(a.Cycles())))
	observability.GraphReducedEdges.Set(float64(a.reducedEdges.EdgeCount()))
	observability.GraphMaxDepth.Set(float64(a.maxDepth))
}

func (a *Analyzer) FileCount() int {
	return a.fileCount
}

func (a *Analyzer) ModuleCount() int {
	return len(a.moduleGraph)
}

func (a *Analyzer) ModuleEdges() ModuleGraph {
	return a.moduleGraph.Clone()
}

func (a *Analyzer) Unresolved() []UnresolvedInclude {
	return slices.Clone(a.unresolved)
}

func (a *Analyzer) Components() []Component {
	out := make([]Component, len(a.components))
	for i, c := range a.components {
		out[i] = c.clone()
	}
	return out
}

func (a *Analyzer) Component(index int) (Component, bool) {
	if index < 0 || index >= len(a.components) {
		return Component{}, false
	}
	return a.components[index].clone(), true
}

func (a *Analyzer) ComponentCount() int {
	return len(a.components)
}

func (a *Analyzer) ComponentName(index int) string {
	if index < 0 || index >= len(a.components) {
		return ""
	}
	return a.components[index].Name
}

func (a *Analyzer) ComponentOf(module string) (int, bool) {
	idx, ok := a.componentOf[module]
	return idx, ok
}

// Cycles returns the components with more than one member.
func (a *Analyzer) Cycles() []Component {
	var out []Component
	for _, c := range a.components {
		if c.IsCycle() {
			out = append(out, c.clone())
		}
	}
	return out
}

// ComponentEdges is the unreduced condensation graph; use it for reachability.
func (a *Analyzer) ComponentEdges() ComponentGraph {
	return a.componentEdges.Clone()
}

// ReducedEdges is the presentation graph after transitive reduction.
func (a *Analyzer) ReducedEdges() ComponentGraph {
	return a.reducedEdges.Clone()
}

func (a *Analyzer) TopologicalOrder() []int {
	return slices.Clone(a.topoOrder)
}

func (a *Analyzer) Depths() map[int]int {
	return maps.Clone(a.depths)
}

func (a *Analyzer) Depth(index int) (int, bool) {
	d, ok := a.depths[index]
	return d, ok
}

func (a *Analyzer) MaxDepth() int {
	return a.maxDepth
}

// Layers groups components by depth, leaf layer (depth 0) first.
func (a *Analyzer) Layers() [][]int {
	return cloneLayers(a.layers)
}

// MatchComponents returns, in index order, every component whose name
// contains keyword. An empty keyword matches all components.
func (a *Analyzer) MatchComponents(keyword string) []int {
	var out []int
	for _, c := range a.components {
		if strings.Contains(c.Name, keyword) {
			out = append(out, c.Index)
		}
	}
	return out
}

func (a *Analyzer) ModuleMetrics() map[string]ModuleMetrics {
	fanIn := make(map[string]int, len(a.moduleGraph))
	for _, targets := range a.moduleGraph {
		for to := range targets {
			fanIn[to]++
		}
	}

	metrics := make(map[string]ModuleMetrics, len(a.moduleGraph))
	for name, targets := range a.moduleGraph {
		comp := a.componentOf[name]
		metrics[name] = ModuleMetrics{
			Component: comp,
			Depth:     a.depths[comp],
			FanIn:     fanIn[name],
			FanOut:    len(targets),
		}
	}
	return metrics
}

func (a *Analyzer) Summary() Summary {
	return Summary{
		Files:          a.fileCount,
		Modules:        len(a.moduleGraph),
		ModuleEdges:    a.moduleGraph.EdgeCount(),
		Components:     len(a.components),
		Cycles:         len(a.Cycles()),
		ComponentEdges: a.componentEdges.EdgeCount(),
		ReducedEdges:   a.reducedEdges.EdgeCount(),
		MaxDepth:       a.maxDepth,
		Unresolved:     len(a.unresolved),
	}
}
