package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./src/a.cpp  ", expected: "src/a.cpp"},
		{name: "Relative", input: "src/../include/a.h", expected: "include/a.h"},
		{name: "Backslash", input: `include\net\socket.h`, expected: "include/net/socket.h"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{in: "a.h", want: "a.h"},
		{in: "include/a.h", want: "a.h"},
		{in: `include\win\a.h`, want: "a.h"},
		{in: "../third/party/b.hpp", want: "b.hpp"},
		{in: "dir/", want: ""},
	}
	for _, tc := range cases {
		if got := BaseName(tc.in); got != tc.want {
			t.Errorf("BaseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	got := SortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected order %v", got)
	}

	ints := SortedKeys(map[int]bool{3: true, 1: true, 2: true})
	if ints[0] != 1 || ints[2] != 3 {
		t.Fatalf("unexpected int order %v", ints)
	}
}

func TestWriteStringWithDirs(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nested", "diagrams", "graph.mmd")
	if err := WriteStringWithDirs(target, "graph LR\n", 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "graph LR\n" {
		t.Fatalf("unexpected content %q", data)
	}
}
