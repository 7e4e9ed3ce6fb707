package app

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"incdeps/internal/core/config"
	"incdeps/internal/data/history"
	"incdeps/internal/engine/graph"
	"incdeps/internal/engine/parser"
)

// Update is published after every analysis run, successful or not.
type Update struct {
	Summary  graph.Summary
	Cycles   []graph.Component
	Duration time.Duration
	Err      error
}

// settings is swapped as a whole on config reload; readers never see a
// config paired with another config's parser.
type settings struct {
	cfg    *config.Config
	paths  config.ResolvedPaths
	parser *parser.Parser
}

// App wires scanning, analysis, output writing and history together. Runs
// are serialized; the last successful model stays readable between runs.
type App struct {
	active atomic.Pointer[settings]

	cache   *parser.Cache
	history *history.Store

	runMu sync.Mutex

	stateMu sync.RWMutex
	current *graph.Analyzer
	lastRun time.Time
	lastErr error

	updateMu sync.RWMutex
	onUpdate func(Update)

	rerunState
}

// New builds an App for cfg. Relative paths in cfg are anchored at baseDir.
func New(cfg *config.Config, baseDir string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	paths, err := config.ResolvePaths(cfg, baseDir)
	if err != nil {
		return nil, err
	}

	a := &App{}
	a.active.Store(&settings{
		cfg:    cfg,
		paths:  paths,
		parser: parser.NewParser(cfg.Scan.Extensions, cfg.Scan.TestMarkers),
	})

	if cfg.Caches.Files > 0 {
		cache, err := parser.NewCache(cfg.Caches.Files)
		if err != nil {
			return nil, fmt.Errorf("create parse cache: %w", err)
		}
		a.cache = cache
	}

	if cfg.History.Enabled {
		store, err := history.Open(paths.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.history = store
		slog.Debug("history store opened", "path", store.Path())
	}

	return a, nil
}

func (a *App) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

func (a *App) settings() *settings {
	return a.active.Load()
}

// Config returns the active configuration. Callers must not modify it.
func (a *App) Config() *config.Config {
	return a.settings().cfg
}

func (a *App) Paths() config.ResolvedPaths {
	return a.settings().paths
}

func (a *App) Parser() *parser.Parser {
	return a.settings().parser
}

// History returns the snapshot store, nil when history is disabled.
func (a *App) History() *history.Store {
	return a.history
}

// Current returns the model of the last successful run.
func (a *App) Current() (*graph.Analyzer, bool) {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.current, a.current != nil
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// ApplyConfig swaps in a reloaded configuration. Scanner and output
// settings take effect on the next run; the history store stays as opened.
// cfg must not be modified afterwards.
func (a *App) ApplyConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	a.runMu.Lock()
	defer a.runMu.Unlock()

	prev := a.settings()
	paths, err := config.ResolvePaths(cfg, prev.paths.BaseDir)
	if err != nil {
		return err
	}
	// history stays on the store opened at startup
	paths.HistoryPath = prev.paths.HistoryPath
	a.active.Store(&settings{
		cfg:    cfg,
		paths:  paths,
		parser: parser.NewParser(cfg.Scan.Extensions, cfg.Scan.TestMarkers),
	})
	return nil
}
