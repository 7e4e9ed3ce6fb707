package formats

import (
	"fmt"
	"strings"

	"incdeps/internal/engine/graph"
)

const mermaidIndent = "    "

// MermaidGenerator renders the reduced condensation graph as a mermaid
// flowchart.
type MermaidGenerator struct {
	analyzer *graph.Analyzer
	ids      []string
}

func NewMermaidGenerator(a *graph.Analyzer) *MermaidGenerator {
	return &MermaidGenerator{analyzer: a, ids: nodeIDs(a.Components())}
}

// Generate emits every component in index order followed by one arrow per
// reduced edge, ordered by source then target index.
func (m *MermaidGenerator) Generate() string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	components := m.analyzer.Components()
	for _, c := range components {
		m.writeNode(&b, c)
	}

	edges := m.analyzer.ReducedEdges()
	for _, c := range components {
		for _, to := range edges.Targets(c.Index) {
			if to == c.Index {
				continue
			}
			m.writeEdge(&b, c.Index, to)
		}
	}
	return b.String()
}

type renderFrame struct {
	component int
	targets   []int
	next      int
}

// GenerateForKeyword renders the downstream subgraph of every component whose
// name contains keyword. Each reachable component and each traversed edge is
// written once, in depth-first order. An empty keyword renders everything.
func (m *MermaidGenerator) GenerateForKeyword(keyword string) string {
	if keyword == "" {
		return m.Generate()
	}

	var b strings.Builder
	b.WriteString("graph LR\n")

	edges := m.analyzer.ReducedEdges()
	visited := make(map[int]bool)
	var frames []renderFrame

	visit := func(index int) {
		visited[index] = true
		if c, ok := m.analyzer.Component(index); ok {
			m.writeNode(&b, c)
		}
		frames = append(frames, renderFrame{component: index, targets: edges.Targets(index)})
	}

	for _, root := range m.analyzer.MatchComponents(keyword) {
		if visited[root] {
			continue
		}
		visit(root)
		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			if top.next >= len(top.targets) {
				frames = frames[:len(frames)-1]
				continue
			}
			from := top.component
			to := top.targets[top.next]
			top.next++
			if to == from {
				continue
			}
			m.writeEdge(&b, from, to)
			if !visited[to] {
				visit(to)
			}
		}
	}
	return b.String()
}

func (m *MermaidGenerator) writeNode(b *strings.Builder, c graph.Component) {
	id := m.ids[c.Index]
	if c.IsCycle() {
		fmt.Fprintf(b, "%s%s_contains[\"%s contains:<br/><br/>", mermaidIndent, id, id)
		for _, member := range c.Members {
			b.WriteString(escapeLabel(member))
			b.WriteString("<br/>")
		}
		b.WriteString("\"]\n")
		fmt.Fprintf(b, "%s%s\n", mermaidIndent, id)
		return
	}
	if id == c.Name {
		fmt.Fprintf(b, "%s%s\n", mermaidIndent, id)
		return
	}
	fmt.Fprintf(b, "%s%s[\"%s\"]\n", mermaidIndent, id, escapeLabel(c.Name))
}

func (m *MermaidGenerator) writeEdge(b *strings.Builder, from, to int) {
	fmt.Fprintf(b, "%s%s --> %s\n", mermaidIndent, m.ids[from], m.ids[to])
}
