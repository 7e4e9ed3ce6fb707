package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	BaseDir     string
	OutputRoot  string
	HistoryPath string
}

// ResolvePaths anchors relative output and history paths at baseDir, usually
// the directory holding the config file.
func ResolvePaths(cfg *Config, baseDir string) (ResolvedPaths, error) {
	if strings.TrimSpace(baseDir) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return ResolvedPaths{}, fmt.Errorf("resolve base directory %q: %w", baseDir, err)
	}

	return ResolvedPaths{
		BaseDir:     base,
		OutputRoot:  ResolveRelative(base, cfg.Output.Root),
		HistoryPath: ResolveRelative(base, cfg.History.Path),
	}, nil
}

// OutputPath resolves an output file name against the output root. Empty
// names stay empty so callers can skip disabled artifacts.
func (p ResolvedPaths) OutputPath(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return ResolveRelative(p.OutputRoot, name)
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// FindConfigFile walks up from start looking for incdeps.toml. It returns an
// empty string when none is found before the filesystem root.
func FindConfigFile(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	dir := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
