package query

import (
	"context"
	"slices"
	"strings"

	"incdeps/internal/engine/graph"
)

// ModuleRow is the queryable view of one module.
type ModuleRow struct {
	Name           string `json:"name"`
	Component      string `json:"component"`
	ComponentIndex int    `json:"component_index"`
	CycleSize      int    `json:"cycle_size"`
	Depth          int    `json:"depth"`
	FanIn          int    `json:"fan_in"`
	FanOut         int    `json:"fan_out"`
	Dependents     int    `json:"dependents"`
}

type Service struct {
	analyzer *graph.Analyzer
}

func NewService(a *graph.Analyzer) *Service {
	return &Service{analyzer: a}
}

// ListModules returns every module whose name contains filter, sorted by
// name. A positive limit truncates the result.
func (s *Service) ListModules(ctx context.Context, filter string, limit int) ([]ModuleRow, error) {
	q := CQLQuery{Limit: limit}
	if filter = strings.TrimSpace(filter); filter != "" {
		q.Conditions = []Condition{{Field: "name", Op: "contains", StrVal: filter}}
	}
	return s.Execute(ctx, q)
}

// ExecuteCQL parses and runs raw. limit overrides the query's own LIMIT
// when positive.
func (s *Service) ExecuteCQL(ctx context.Context, raw string, limit int) ([]ModuleRow, error) {
	q, err := ParseCQL(raw)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		q.Limit = limit
	}
	return s.Execute(ctx, q)
}

func (s *Service) Execute(ctx context.Context, q CQLQuery) ([]ModuleRow, error) {
	metrics := s.analyzer.ModuleMetrics()
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]ModuleRow, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := s.row(name, metrics[name])
		if !matches(row, q.Conditions) {
			continue
		}
		rows = append(rows, row)
		if q.Limit > 0 && len(rows) == q.Limit {
			break
		}
	}
	return rows, nil
}

func (s *Service) row(name string, m graph.ModuleMetrics) ModuleRow {
	row := ModuleRow{
		Name:           name,
		ComponentIndex: m.Component,
		Depth:          m.Depth,
		FanIn:          m.FanIn,
		FanOut:         m.FanOut,
		Dependents:     len(s.analyzer.TransitiveDependents(name)),
	}
	if c, ok := s.analyzer.Component(m.Component); ok {
		row.Component = c.Name
		row.CycleSize = len(c.Members)
	}
	return row
}

func matches(row ModuleRow, conditions []Condition) bool {
	for _, c := range conditions {
		switch c.Field {
		case "name":
			if !matchString(row.Name, c) {
				return false
			}
		case "component":
			if !matchString(row.Component, c) {
				return false
			}
		default:
			if !matchInt(intValue(row, c.Field), c) {
				return false
			}
		}
	}
	return true
}

func intValue(row ModuleRow, field string) int {
	switch field {
	case "depth":
		return row.Depth
	case "fan_in":
		return row.FanIn
	case "fan_out":
		return row.FanOut
	case "dependents":
		return row.Dependents
	case "cycle_size":
		return row.CycleSize
	case "component_index":
		return row.ComponentIndex
	}
	return 0
}

func matchString(value string, c Condition) bool {
	switch c.Op {
	case "contains":
		return strings.Contains(value, c.StrVal)
	case "!=":
		return value != c.StrVal
	default:
		return value == c.StrVal
	}
}

func matchInt(value int, c Condition) bool {
	switch c.Op {
	case ">":
		return value > c.IntVal
	case ">=":
		return value >= c.IntVal
	case "<":
		return value < c.IntVal
	case "<=":
		return value <= c.IntVal
	case "!=":
		return value != c.IntVal
	default:
		return value == c.IntVal
	}
}
