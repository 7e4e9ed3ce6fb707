package formats

import (
	"fmt"
	"strings"

	"incdeps/internal/engine/graph"
	"incdeps/internal/shared/util"
)

type TSVGenerator struct {
	analyzer *graph.Analyzer
}

func NewTSVGenerator(a *graph.Analyzer) *TSVGenerator {
	return &TSVGenerator{analyzer: a}
}

// Generate lists every module edge with the components and depths of both
// ends, sorted by source then target.
func (t *TSVGenerator) Generate() string {
	var buf strings.Builder
	buf.WriteString("From\tTo\tFromComponent\tToComponent\tFromDepth\tToDepth\n")

	modules := t.analyzer.ModuleEdges()
	metrics := t.analyzer.ModuleMetrics()
	for _, from := range util.SortedKeys(modules) {
		for _, to := range modules.Targets(from) {
			fm, tm := metrics[from], metrics[to]
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%d\n",
				from,
				to,
				t.analyzer.ComponentName(fm.Component),
				t.analyzer.ComponentName(tm.Component),
				fm.Depth,
				tm.Depth,
			))
		}
	}
	return buf.String()
}

// GenerateUnresolved lists includes that matched no scanned file.
func (t *TSVGenerator) GenerateUnresolved() string {
	var buf strings.Builder
	buf.WriteString("File\tHeader\n")
	for _, u := range t.analyzer.Unresolved() {
		buf.WriteString(fmt.Sprintf("%s\t%s\n", u.File, u.Header))
	}
	return buf.String()
}
