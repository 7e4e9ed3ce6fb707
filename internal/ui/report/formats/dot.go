package formats

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"incdeps/internal/engine/graph"
)

// DOTGenerator renders components as Graphviz clusters. Member modules of a
// cycle are drawn inside their cluster with the module edges that form the
// cycle; reduced component edges connect the clusters.
type DOTGenerator struct {
	analyzer *graph.Analyzer
}

func NewDOTGenerator(a *graph.Analyzer) *DOTGenerator {
	return &DOTGenerator{analyzer: a}
}

func (d *DOTGenerator) Generate() string {
	var b strings.Builder
	b.WriteString("digraph incdeps {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  compound=true;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")

	components := d.analyzer.Components()
	modules := d.analyzer.ModuleEdges()
	for _, c := range components {
		if !c.IsCycle() {
			fmt.Fprintf(&b, "  %q;\n", c.Name)
			continue
		}
		fmt.Fprintf(&b, "\n  subgraph cluster_%d {\n", c.Index)
		fmt.Fprintf(&b, "    label=%q;\n", fmt.Sprintf("SCC_%d", c.Index))
		b.WriteString("    style=\"rounded,dashed\";\n")
		b.WriteString("    color=firebrick;\n")
		for _, member := range c.Members {
			fmt.Fprintf(&b, "    %q;\n", member)
		}
		for _, member := range c.Members {
			for _, to := range modules.Targets(member) {
				if idx, _ := d.analyzer.ComponentOf(to); idx == c.Index {
					fmt.Fprintf(&b, "    %q -> %q [color=firebrick];\n", member, to)
				}
			}
		}
		b.WriteString("  }\n")
	}

	b.WriteString("\n")
	edges := d.analyzer.ReducedEdges()
	for _, c := range components {
		for _, to := range edges.Targets(c.Index) {
			if to == c.Index {
				continue
			}
			target := components[to]
			var attrs []string
			if c.IsCycle() {
				attrs = append(attrs, fmt.Sprintf("ltail=cluster_%d", c.Index))
			}
			if target.IsCycle() {
				attrs = append(attrs, fmt.Sprintf("lhead=cluster_%d", target.Index))
			}
			fmt.Fprintf(&b, "  %q -> %q", c.Members[0], target.Members[0])
			if len(attrs) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(attrs, ", "))
			}
			b.WriteString(";\n")
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderSVG lays out a DOT document with the embedded Graphviz build.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
