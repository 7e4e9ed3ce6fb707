package formats

import (
	"fmt"
	"strings"

	"incdeps/internal/engine/graph"
)

type PlantUMLGenerator struct {
	analyzer *graph.Analyzer
	ids      []string
}

func NewPlantUMLGenerator(a *graph.Analyzer) *PlantUMLGenerator {
	return &PlantUMLGenerator{analyzer: a, ids: nodeIDs(a.Components())}
}

func (p *PlantUMLGenerator) Generate() string {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("skinparam componentStyle rectangle\n")
	b.WriteString("left to right direction\n\n")

	components := p.analyzer.Components()
	for _, c := range components {
		label := c.Name
		if c.IsCycle() {
			label = fmt.Sprintf("SCC_%d\\n%s", c.Index, strings.Join(c.Members, ", "))
			fmt.Fprintf(&b, "component \"%s\" as %s #MistyRose\n", escapeLabel(label), p.ids[c.Index])
			continue
		}
		fmt.Fprintf(&b, "component \"%s\" as %s\n", escapeLabel(label), p.ids[c.Index])
	}

	b.WriteString("\n")
	edges := p.analyzer.ReducedEdges()
	for _, c := range components {
		for _, to := range edges.Targets(c.Index) {
			if to != c.Index {
				fmt.Fprintf(&b, "%s --> %s\n", p.ids[c.Index], p.ids[to])
			}
		}
	}

	b.WriteString("@enduml\n")
	return b.String()
}
