package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incdeps/internal/core/errors"
	"incdeps/internal/data/history"
	"incdeps/internal/engine/graph"
	"incdeps/internal/engine/parser"
)

func analyzer(t *testing.T, files ...*parser.File) *graph.Analyzer {
	t.Helper()
	a, err := graph.NewAnalyzer(files)
	require.NoError(t, err)
	return a
}

func TestRenderMarkdown_LinkedCycles(t *testing.T) {
	a := analyzer(t,
		&parser.File{Name: "A.cpp", IncludedHeaders: []string{"B.h", "C.h"}},
		&parser.File{Name: "A.h"},
		&parser.File{Name: "B.cpp", IncludedHeaders: []string{"A.h"}},
		&parser.File{Name: "B.h"},
		&parser.File{Name: "C.cpp", IncludedHeaders: []string{"D.h", "stdio.h"}},
		&parser.File{Name: "C.h"},
		&parser.File{Name: "D.cpp", IncludedHeaders: []string{"C.h"}},
		&parser.File{Name: "D.h"},
	)

	out := RenderMarkdown(a, Options{})

	assert.True(t, strings.HasPrefix(out, "# Include dependency report\n"))
	assert.Contains(t, out, "- `A` depends on: `B`, `C`\n")
	assert.Contains(t, out, "SCC[0](D|C): D C\n")
	assert.Contains(t, out, "SCC[1](B|A): B A\n")
	assert.Contains(t, out, "[0]: D|C\n[1]: B|A\n")
	assert.Contains(t, out, "- SCC_1 (2 modules): A, B\n")
	assert.Contains(t, out, "1 include(s) matched no scanned file.")
	assert.Contains(t, out, "```mermaid\ngraph LR\n")
	assert.Contains(t, out, "    SCC_1 --> SCC_0\n")
	assert.Contains(t, out, "| Max graph depth | 1 |\n")
	assert.True(t, strings.HasSuffix(out, "Max graph depth: 1 (2 layers)\n"))
}

func TestRenderMarkdown_CycleMembersListedAsSet(t *testing.T) {
	a := analyzer(t,
		&parser.File{Name: "A.h", IncludedHeaders: []string{"B.h"}},
		&parser.File{Name: "B.h", IncludedHeaders: []string{"C.h"}},
		&parser.File{Name: "C.h", IncludedHeaders: []string{"A.h"}},
	)

	out := RenderMarkdown(a, Options{})
	section := out[strings.Index(out, "## Include cycles"):]
	section = section[:strings.Index(section, "## Mermaid graph")]

	assert.Contains(t, section, "- SCC_0 (3 modules): A, B, C\n")
	assert.NotContains(t, section, "->")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	out := RenderMarkdown(analyzer(t), Options{Title: "Empty"})

	assert.True(t, strings.HasPrefix(out, "# Empty\n"))
	assert.Contains(t, out, "_No modules found._")
	assert.Contains(t, out, "```mermaid\ngraph LR\n```")
	assert.NotContains(t, out, "## Include cycles")
	assert.NotContains(t, out, "## Unresolved includes")
	assert.Contains(t, out, "Max graph depth: 0 (0 layers)")
}

func TestRenderMarkdown_KeywordScopesDiagram(t *testing.T) {
	a := analyzer(t,
		&parser.File{Name: "app.cpp", IncludedHeaders: []string{"core.h"}},
		&parser.File{Name: "core.h"},
		&parser.File{Name: "tool.cpp"},
	)

	out := RenderMarkdown(a, Options{Keyword: "app"})
	mermaid := out[strings.Index(out, "```mermaid"):]

	assert.Contains(t, mermaid, "app --> core")
	assert.NotContains(t, mermaid, "tool")
	assert.Contains(t, out, "- `tool` has no dependencies\n")
}

func TestReplaceBetweenMarkers(t *testing.T) {
	content := "intro\n<!-- incdeps:deps:start -->\nold\n<!-- incdeps:deps:end -->\noutro\n"

	got, err := ReplaceBetweenMarkers(content, "deps", "new\n")
	require.NoError(t, err)
	assert.Equal(t, "intro\n<!-- incdeps:deps:start -->\nnew\n<!-- incdeps:deps:end -->\noutro\n", got)

	crlf := strings.ReplaceAll(content, "\n", "\r\n")
	got, err = ReplaceBetweenMarkers(crlf, "deps", "a\nb")
	require.NoError(t, err)
	assert.Contains(t, got, "start -->\r\na\r\nb\r\n<!--")
}

func TestReplaceBetweenMarkers_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		marker  string
	}{
		{name: "EmptyMarker", content: "x", marker: " "},
		{name: "Missing", content: "no markers", marker: "deps"},
		{name: "Reversed", content: "<!-- incdeps:deps:end -->\n<!-- incdeps:deps:start -->", marker: "deps"},
		{name: "Duplicated", content: "<!-- incdeps:deps:start --><!-- incdeps:deps:start --><!-- incdeps:deps:end -->", marker: "deps"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReplaceBetweenMarkers(tc.content, tc.marker, "x")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError))
		})
	}
}

func TestInjectMermaid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte("# Readme\n<!-- incdeps:graph:start -->\n<!-- incdeps:graph:end -->\n"), 0o644))

	require.NoError(t, InjectMermaid(path, "graph", "graph LR\n    a --> b\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Readme\n<!-- incdeps:graph:start -->\n```mermaid\ngraph LR\n    a --> b\n```\n<!-- incdeps:graph:end -->\n", string(data))

	err = InjectMermaid(path, "other", "graph LR\n")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestRenderTrend(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	trend, err := history.BuildTrendReport("p", []history.Snapshot{
		{RunID: "r1", Timestamp: base, ModuleCount: 2, CycleCount: 1},
		{RunID: "r2", Timestamp: base.Add(time.Hour), ModuleCount: 3, CycleCount: 0},
	}, 0)
	require.NoError(t, err)

	tsv := string(RenderTrendTSV(trend))
	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RunID\tTimestamp\t"))
	assert.True(t, strings.HasPrefix(lines[2], "r2\t2026-02-13T11:00:00Z\t\t0\t3\t0\t"))

	raw, err := RenderTrendJSON(trend)
	require.NoError(t, err)
	var decoded history.TrendReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 2, decoded.ScanCount)
	assert.Equal(t, -1, decoded.Points[1].DeltaCycles)
}
