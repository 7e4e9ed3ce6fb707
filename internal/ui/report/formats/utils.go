package formats

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"incdeps/internal/engine/graph"
)

var mermaidIDPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reserved words that break a mermaid flowchart when used as a bare node id
var mermaidReserved = map[string]bool{"end": true, "graph": true, "subgraph": true, "style": true, "class": true, "click": true}

func isMermaidID(name string) bool {
	return mermaidIDPattern.MatchString(name) && !mermaidReserved[strings.ToLower(name)]
}

func sanitizeID(module string) string {
	if module == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range module {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	if mermaidReserved[strings.ToLower(out)] {
		return "m_" + out
	}
	return out
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// componentID names a component in diagrams: SCC_<i> for clusters, the
// member name for singletons.
func componentID(c graph.Component) string {
	if c.IsCycle() {
		return fmt.Sprintf("SCC_%d", c.Index)
	}
	return c.Name
}

// nodeIDs assigns every component a diagram-safe identifier, unique across
// the diagram. Cluster ids (SCC_<i> and their SCC_<i>_contains box) are
// claimed first, then valid singleton names verbatim; the rest get sanitized
// ids made unique with a numeric suffix.
func nodeIDs(components []graph.Component) []string {
	ids := make([]string, len(components))
	used := make(map[string]bool, len(components))
	for i, c := range components {
		if c.IsCycle() {
			ids[i] = componentID(c)
			used[ids[i]] = true
			used[ids[i]+"_contains"] = true
		}
	}
	for i, c := range components {
		if ids[i] == "" && isMermaidID(c.Name) && !used[c.Name] {
			ids[i] = c.Name
			used[c.Name] = true
		}
	}
	for i, c := range components {
		if ids[i] != "" {
			continue
		}
		base := sanitizeID(c.Name)
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		ids[i] = id
		used[id] = true
	}
	return ids
}
