package graph

import (
	"log/slog"

	"incdeps/internal/engine/parser"
	"incdeps/internal/shared/observability"
	"incdeps/internal/shared/util"
)

// BuildModuleGraph turns scanned files into module adjacency. Every file
// registers its own module key; an edge is added for each resolvable header
// whose module differs from the including file's module.
func BuildModuleGraph(files []*parser.File, resolver HeaderResolver) (ModuleGraph, []UnresolvedInclude) {
	g := make(ModuleGraph, len(files))
	var unresolved []UnresolvedInclude

	for _, file := range files {
		if file == nil {
			continue
		}
		src := ModuleKey(file.Name)
		g.ensure(src)

		for _, header := range file.IncludedHeaders {
			target, ok := resolver.Resolve(header)
			if !ok {
				slog.Debug("skip included header outside scan scope", "header", util.BaseName(header), "file", file.Name)
				observability.UnresolvedIncludesTotal.Inc()
				unresolved = append(unresolved, UnresolvedInclude{File: file.Name, Header: header})
				continue
			}
			tgt := ModuleKey(target.Name)
			g.ensure(tgt)
			if src != tgt {
				g[src][tgt] = true
			}
		}
	}

	return g, unresolved
}
