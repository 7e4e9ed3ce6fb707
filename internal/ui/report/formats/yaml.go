package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"incdeps/internal/engine/graph"
	"incdeps/internal/shared/util"
)

type yamlSummary struct {
	Files          int `yaml:"files"`
	Modules        int `yaml:"modules"`
	ModuleEdges    int `yaml:"module_edges"`
	Components     int `yaml:"components"`
	Cycles         int `yaml:"cycles"`
	ComponentEdges int `yaml:"component_edges"`
	ReducedEdges   int `yaml:"reduced_edges"`
	MaxDepth       int `yaml:"max_depth"`
	Unresolved     int `yaml:"unresolved"`
}

type yamlModule struct {
	Name         string   `yaml:"name"`
	Component    int      `yaml:"component"`
	Depth        int      `yaml:"depth"`
	FanIn        int      `yaml:"fan_in"`
	FanOut       int      `yaml:"fan_out"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

type yamlComponent struct {
	Index        int      `yaml:"index"`
	Name         string   `yaml:"name"`
	Members      []string `yaml:"members"`
	Depth        int      `yaml:"depth"`
	Dependencies []int    `yaml:"dependencies,omitempty"`
}

type yamlUnresolved struct {
	File   string `yaml:"file"`
	Header string `yaml:"header"`
}

type yamlModel struct {
	Summary    yamlSummary      `yaml:"summary"`
	Modules    []yamlModule     `yaml:"modules"`
	Components []yamlComponent  `yaml:"components"`
	Layers     [][]string       `yaml:"layers"`
	Unresolved []yamlUnresolved `yaml:"unresolved,omitempty"`
}

type YAMLGenerator struct {
	analyzer *graph.Analyzer
}

func NewYAMLGenerator(a *graph.Analyzer) *YAMLGenerator {
	return &YAMLGenerator{analyzer: a}
}

// Generate exports the whole model. Component dependencies are reduced edges.
func (y *YAMLGenerator) Generate() (string, error) {
	a := y.analyzer
	s := a.Summary()
	model := yamlModel{
		Summary: yamlSummary{
			Files:          s.Files,
			Modules:        s.Modules,
			ModuleEdges:    s.ModuleEdges,
			Components:     s.Components,
			Cycles:         s.Cycles,
			ComponentEdges: s.ComponentEdges,
			ReducedEdges:   s.ReducedEdges,
			MaxDepth:       s.MaxDepth,
			Unresolved:     s.Unresolved,
		},
		Modules:    []yamlModule{},
		Components: []yamlComponent{},
		Layers:     [][]string{},
	}

	modules := a.ModuleEdges()
	metrics := a.ModuleMetrics()
	for _, name := range util.SortedKeys(modules) {
		m := metrics[name]
		model.Modules = append(model.Modules, yamlModule{
			Name:         name,
			Component:    m.Component,
			Depth:        m.Depth,
			FanIn:        m.FanIn,
			FanOut:       m.FanOut,
			Dependencies: modules.Targets(name),
		})
	}

	reduced := a.ReducedEdges()
	for _, c := range a.Components() {
		depth, _ := a.Depth(c.Index)
		model.Components = append(model.Components, yamlComponent{
			Index:        c.Index,
			Name:         c.Name,
			Members:      c.Members,
			Depth:        depth,
			Dependencies: reduced.Targets(c.Index),
		})
	}

	for _, layer := range a.Layers() {
		names := make([]string, 0, len(layer))
		for _, idx := range layer {
			names = append(names, a.ComponentName(idx))
		}
		model.Layers = append(model.Layers, names)
	}

	for _, u := range a.Unresolved() {
		model.Unresolved = append(model.Unresolved, yamlUnresolved{File: u.File, Header: u.Header})
	}

	out, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	return string(out), nil
}
