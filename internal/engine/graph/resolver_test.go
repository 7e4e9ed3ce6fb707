package graph

import (
	"testing"

	"incdeps/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuffixResolver_FirstInputOrderMatchWins(t *testing.T) {
	files := []*parser.File{
		file("lib/one/config.h"),
		file("lib/two/config.h"),
	}
	r := NewSuffixResolver(files)

	got, ok := r.Resolve("two/config.h")
	require.True(t, ok)
	assert.Equal(t, "lib/one/config.h", got.Name, "directory prefix is stripped before matching")
}

func TestSuffixResolver_Cases(t *testing.T) {
	files := []*parser.File{
		file("src/data.h"),
		file("src/socket.hpp"),
	}
	r := NewSuffixResolver(files)

	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "socket.hpp", want: "src/socket.hpp", ok: true},
		{header: `net\socket.hpp`, want: "src/socket.hpp", ok: true},
		{header: "ta.h", want: "src/data.h", ok: true},
		{header: "missing.h", ok: false},
		{header: "dir/", ok: false},
		{header: "   ", ok: false},
	}
	for _, tc := range cases {
		got, ok := r.Resolve(tc.header)
		assert.Equalf(t, tc.ok, ok, "header %q", tc.header)
		if tc.ok {
			assert.Equal(t, tc.want, got.Name)
		}
	}
}

func TestBuildModuleGraph_KeysAndEdges(t *testing.T) {
	files := []*parser.File{
		file("a.cpp", "a.h", "b.h", "b.h"),
		file("a.h"),
		file("b.h", "c.h"),
		nil,
	}
	g, unresolved := BuildModuleGraph(files, NewSuffixResolver(files))

	assert.Equal(t, ModuleGraph{
		"a": {"b": true},
		"b": {},
	}, g)
	assert.Equal(t, []UnresolvedInclude{{File: "b.h", Header: "c.h"}}, unresolved)
}
