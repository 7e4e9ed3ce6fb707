package report

import (
	"fmt"
	"slices"
	"strings"

	"incdeps/internal/engine/graph"
	"incdeps/internal/shared/util"
	"incdeps/internal/ui/report/formats"
)

type Options struct {
	Title string
	// Keyword scopes the embedded diagram; empty renders the full graph.
	Keyword string
}

// RenderMarkdown produces the human readable analysis report: module
// dependencies, components, layers, the mermaid diagram and the depth scalar.
// Cycles are already collapsed into components, so the depth is always
// finite.
func RenderMarkdown(a *graph.Analyzer, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "Include dependency report"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	s := a.Summary()
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	rows := []struct {
		name  string
		value int
	}{
		{"Files", s.Files},
		{"Modules", s.Modules},
		{"Module edges", s.ModuleEdges},
		{"Components", s.Components},
		{"Cycles", s.Cycles},
		{"Reduced edges", s.ReducedEdges},
		{"Unresolved includes", s.Unresolved},
		{"Max graph depth", s.MaxDepth},
		{"Layers", len(a.Layers())},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %d |\n", row.name, row.value)
	}

	b.WriteString("\n## File dependencies\n\n")
	modules := a.ModuleEdges()
	names := util.SortedKeys(modules)
	if len(names) == 0 {
		b.WriteString("_No modules found._\n")
	}
	for _, name := range names {
		deps := modules.Targets(name)
		if len(deps) == 0 {
			fmt.Fprintf(&b, "- `%s` has no dependencies\n", name)
			continue
		}
		fmt.Fprintf(&b, "- `%s` depends on: `%s`\n", name, strings.Join(deps, "`, `"))
	}

	b.WriteString("\n## Strongly connected components\n\n")
	b.WriteString("```text\n")
	for _, c := range a.Components() {
		fmt.Fprintf(&b, "SCC[%d](%s): %s\n", c.Index, c.Name, strings.Join(c.Members, " "))
	}
	b.WriteString("```\n")

	b.WriteString("\n## Topological layers (fewest dependencies first)\n\n")
	b.WriteString("```text\n")
	for depth, layer := range a.Layers() {
		for _, idx := range layer {
			fmt.Fprintf(&b, "[%d]: %s\n", depth, a.ComponentName(idx))
		}
	}
	b.WriteString("```\n")

	if cycles := a.Cycles(); len(cycles) > 0 {
		// members are listed as a set; pop order is not an include path
		b.WriteString("\n## Include cycles\n\n")
		for _, c := range cycles {
			members := slices.Clone(c.Members)
			slices.Sort(members)
			fmt.Fprintf(&b, "- SCC_%d (%d modules): %s\n", c.Index, len(members), strings.Join(members, ", "))
		}
	}

	if unresolved := a.Unresolved(); len(unresolved) > 0 {
		fmt.Fprintf(&b, "\n## Unresolved includes\n\n%d include(s) matched no scanned file.\n", len(unresolved))
	}

	b.WriteString("\n## Mermaid graph\n\n")
	b.WriteString("```mermaid\n")
	b.WriteString(formats.NewMermaidGenerator(a).GenerateForKeyword(opts.Keyword))
	b.WriteString("```\n\n")
	fmt.Fprintf(&b, "Max graph depth: %d (%d layers)\n", a.MaxDepth(), len(a.Layers()))

	return b.String()
}
