package graph

import (
	"strings"

	"incdeps/internal/engine/parser"
	"incdeps/internal/shared/util"
)

// HeaderResolver decides which scanned file, if any, a raw header reference
// points at. Returning false drops the reference from the graph.
type HeaderResolver interface {
	Resolve(header string) (*parser.File, bool)
}

// ResolverFactory builds a resolver over the full scanned file set.
type ResolverFactory func(files []*parser.File) HeaderResolver

// SuffixResolver matches a header by its bare name against the end of each
// file name, first match in input order. It is a zero-configuration
// heuristic, not an include-path resolver: "a.h" also matches "data.h".
type SuffixResolver struct {
	files []*parser.File
}

func NewSuffixResolver(files []*parser.File) HeaderResolver {
	return &SuffixResolver{files: files}
}

func (r *SuffixResolver) Resolve(header string) (*parser.File, bool) {
	bare := util.BaseName(strings.TrimSpace(header))
	if bare == "" {
		return nil, false
	}
	for _, f := range r.files {
		if f != nil && strings.HasSuffix(f.Name, bare) {
			return f, true
		}
	}
	return nil, false
}
