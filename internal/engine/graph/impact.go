package graph

import (
	"slices"

	"incdeps/internal/core/errors"
)

// ImpactReport describes what is affected when one module changes.
type ImpactReport struct {
	TargetModule         string
	Component            string
	InCycle              bool
	Dependencies         []string
	DirectDependents     []string
	TransitiveDependents []string
}

// AnalyzeImpact accepts a module key or a file name and lists the modules
// that directly or transitively include it. Transitive dependents exclude
// the direct ones.
func (a *Analyzer) AnalyzeImpact(target string) (ImpactReport, error) {
	module := target
	if _, ok := a.moduleGraph[module]; !ok {
		module = ModuleKey(target)
	}
	if _, ok := a.moduleGraph[module]; !ok {
		return ImpactReport{}, errors.AddContext(errors.New(errors.CodeNotFound, "impact target not found"), errors.CtxModule, target)
	}

	comp := a.components[a.componentOf[module]]
	report := ImpactReport{
		TargetModule: module,
		Component:    comp.Name,
		InCycle:      comp.IsCycle(),
		Dependencies: a.moduleGraph.Targets(module),
	}

	var direct []string
	for from, targets := range a.moduleGraph {
		if targets[module] && from != module {
			direct = append(direct, from)
		}
	}
	slices.Sort(direct)
	report.DirectDependents = direct

	for _, mod := range a.TransitiveDependents(module) {
		if mod == module || slices.Contains(direct, mod) {
			continue
		}
		report.TransitiveDependents = append(report.TransitiveDependents, mod)
	}
	return report, nil
}
