package config

import "time"

const DefaultFileName = "incdeps.toml"

type Config struct {
	Version       int           `toml:"version"`
	WatchPaths    []string      `toml:"watch_paths"`
	Scan          Scan          `toml:"scan"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Caches        Caches        `toml:"caches"`
	Logging       Logging       `toml:"logging"`
}

type Scan struct {
	Extensions   []string `toml:"extensions"`
	TestMarkers  []string `toml:"test_markers"`
	IncludeTests bool     `toml:"include_tests"`
}

// Exclude patterns are gobwas/glob expressions matched against base names.
type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MinInterval throttles full reruns triggered by file events.
	MinInterval time.Duration `toml:"min_interval"`
}

// Output file names are resolved against Root; an empty name disables that
// artifact.
type Output struct {
	Root           string              `toml:"root"`
	Mermaid        string              `toml:"mermaid"`
	DOT            string              `toml:"dot"`
	SVG            string              `toml:"svg"`
	PlantUML       string              `toml:"plantuml"`
	TSV            string              `toml:"tsv"`
	YAML           string              `toml:"yaml"`
	Report         string              `toml:"report"`
	Keyword        string              `toml:"keyword"`
	UpdateMarkdown []MarkdownInjection `toml:"update_markdown"`
}

type MarkdownInjection struct {
	File   string `toml:"file"`
	Marker string `toml:"marker"`
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	Project     string        `toml:"project"`
	TrendWindow time.Duration `toml:"trend_window"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Address       string `toml:"address"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	Insecure      bool   `toml:"insecure"`
}

type Caches struct {
	// Files bounds the parse cache; a negative value disables it.
	Files int `toml:"files"`
}

type Logging struct {
	Level string `toml:"level"`
	// File receives logs instead of stderr, used by the terminal UI.
	File string `toml:"file"`
}
