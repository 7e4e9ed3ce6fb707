package app

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"

	"incdeps/internal/core/config"
	"incdeps/internal/engine/parser"
	"incdeps/internal/shared/observability"
)

// SourceFile is one file found by a directory scan.
type SourceFile struct {
	Root string
	Path string
	Name string // slash path relative to Root
}

// ScanRoots resolves the configured watch paths against the base directory,
// dropping duplicates.
func (a *App) ScanRoots() []string {
	s := a.settings()
	return scanRoots(s.cfg, s.paths.BaseDir)
}

func scanRoots(cfg *config.Config, baseDir string) []string {
	seen := make(map[string]bool, len(cfg.WatchPaths))
	roots := make([]string, 0, len(cfg.WatchPaths))
	for _, p := range cfg.WatchPaths {
		root := config.ResolveRelative(baseDir, p)
		if seen[root] {
			continue
		}
		seen[root] = true
		roots = append(roots, root)
	}
	slices.Sort(roots)
	return roots
}

// Accepts reports whether path would be picked up by a scan, ignoring the
// exclude globs which the watcher applies itself.
func (a *App) Accepts(path string) bool {
	return a.settings().accepts(path)
}

func (s *settings) accepts(path string) bool {
	if !s.parser.IsSupportedPath(path) {
		return false
	}
	return s.cfg.Scan.IncludeTests || !s.parser.IsTestFile(path)
}

func compileGlobs(kind string, patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude %s pattern %q: %w", kind, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// ScanDirectories walks every root in lexical order and returns the source
// files that survive the extension, test and exclude filters.
func (a *App) ScanDirectories(roots, excludeDirs, excludeFiles []string) ([]SourceFile, error) {
	dirGlobs, err := compileGlobs("dir", excludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs("file", excludeFiles)
	if err != nil {
		return nil, err
	}

	s := a.settings()
	var files []SourceFile
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && matchAny(dirGlobs, base) {
					return filepath.SkipDir
				}
				return nil
			}

			if !s.accepts(path) {
				return nil
			}
			if matchAny(fileGlobs, base) {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, SourceFile{
				Root: root,
				Path: path,
				Name: filepath.ToSlash(rel),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", root, err)
		}
	}

	return files, nil
}

// LoadRecords parses each file, serving unchanged files from the parse
// cache. Unreadable files are logged and skipped.
func (a *App) LoadRecords(files []SourceFile) []*parser.File {
	p := a.Parser()
	records := make([]*parser.File, 0, len(files))
	for _, f := range files {
		record, err := a.loadRecord(p, f)
		if err != nil {
			slog.Warn("failed to process file", "path", f.Path, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

func (a *App) loadRecord(p *parser.Parser, f SourceFile) (*parser.File, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, err
	}

	if cached, ok := a.cache.Get(f.Path, info.Size(), info.ModTime()); ok {
		observability.ParseCacheHitsTotal.Inc()
		cached.Name = f.Name
		return cached, nil
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	record, err := p.ParseFile(f.Name, content)
	if err != nil {
		return nil, err
	}
	record.Path = f.Path

	a.cache.Put(f.Path, info.Size(), info.ModTime(), record)
	return record, nil
}
