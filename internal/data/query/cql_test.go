package query

import (
	"context"
	"testing"

	"incdeps/internal/core/errors"
	"incdeps/internal/engine/graph"
	"incdeps/internal/engine/parser"
)

func seedService(t *testing.T) *Service {
	t.Helper()
	a, err := graph.NewAnalyzer([]*parser.File{
		{Name: "a.cpp", IncludedHeaders: []string{"b.h", "c.h"}},
		{Name: "b.h", IncludedHeaders: []string{"c.h"}},
		{Name: "c.h"},
		{Name: "x.h", IncludedHeaders: []string{"y.h"}},
		{Name: "y.h", IncludedHeaders: []string{"x.h"}},
	})
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return NewService(a)
}

func names(rows []ModuleRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseCQL(t *testing.T) {
	query, err := ParseCQL(`SELECT modules WHERE fan_in >= 1 AND name CONTAINS "b" LIMIT 3`)
	if err != nil {
		t.Fatalf("parse cql: %v", err)
	}
	if len(query.Conditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(query.Conditions))
	}
	if query.Limit != 3 {
		t.Fatalf("expected limit 3, got %d", query.Limit)
	}
	if c := query.Conditions[1]; c.Field != "name" || c.Op != "contains" || c.StrVal != "b" {
		t.Fatalf("unexpected second condition: %+v", c)
	}

	query, err = ParseCQL("select modules")
	if err != nil {
		t.Fatalf("parse bare select: %v", err)
	}
	if len(query.Conditions) != 0 || query.Limit != 0 {
		t.Fatalf("expected empty query, got %+v", query)
	}
}

func TestParseCQL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"DELETE FROM modules",
		"SELECT modules WHERE size > 1",
		"SELECT modules WHERE name > 1",
		`SELECT modules WHERE depth = "3"`,
		`SELECT modules WHERE depth CONTAINS "3"`,
		"SELECT modules WHERE fan_in ~ 2",
	} {
		_, err := ParseCQL(raw)
		if err == nil {
			t.Fatalf("expected %q to fail", raw)
		}
		if !errors.IsCode(err, errors.CodeValidationError) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestService_ExecuteCQL(t *testing.T) {
	svc := seedService(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{`SELECT modules WHERE fan_out >= 1`, []string{"a", "b", "x", "y"}},
		{`SELECT modules WHERE cycle_size = 2`, []string{"x", "y"}},
		{`SELECT modules WHERE dependents >= 2`, []string{"c"}},
		{`SELECT modules WHERE component CONTAINS "|"`, []string{"x", "y"}},
		{`SELECT modules WHERE depth = 2 AND fan_in = 0`, []string{"a"}},
		{`SELECT modules WHERE name != "a" AND fan_in > 1`, []string{"c"}},
		{`SELECT modules LIMIT 2`, []string{"a", "b"}},
	}
	for _, tt := range tests {
		rows, err := svc.ExecuteCQL(ctx, tt.query, 0)
		if err != nil {
			t.Fatalf("execute %q: %v", tt.query, err)
		}
		if got := names(rows); !equal(got, tt.want) {
			t.Fatalf("%q: got %v, want %v", tt.query, got, tt.want)
		}
	}

	rows, err := svc.ExecuteCQL(ctx, `SELECT modules`, 1)
	if err != nil {
		t.Fatalf("execute with limit: %v", err)
	}
	if !equal(names(rows), []string{"a"}) {
		t.Fatalf("limit override: got %v", names(rows))
	}
}

func TestService_ListModules(t *testing.T) {
	svc := seedService(t)

	rows, err := svc.ListModules(context.Background(), "b", 0)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "b" {
		t.Fatalf("expected only b, got %+v", rows)
	}
	if rows[0].FanIn != 1 || rows[0].FanOut != 1 || rows[0].Depth != 1 || rows[0].Dependents != 1 {
		t.Fatalf("unexpected metrics for b: %+v", rows[0])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.ListModules(ctx, "", 0); err == nil {
		t.Fatal("expected cancelled context to fail")
	}
}
