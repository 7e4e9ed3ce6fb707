package app

import (
	"context"
	"log/slog"
	"sync"

	"incdeps/internal/core/config"
	"incdeps/internal/core/watcher"
	"incdeps/internal/shared/util"
)

// Watch runs an initial analysis and then reruns it whenever relevant source
// files change, until ctx is cancelled. Reruns are throttled to one per
// watch.min_interval; a change arriving while throttled waits for its slot.
// When configPath is non-empty the config file is reloaded on edit.
func (a *App) Watch(ctx context.Context, configPath string) error {
	if _, err := a.Run(ctx); err != nil {
		slog.Warn("initial analysis failed; waiting for changes", "error", err)
	}

	w, err := a.startWatcher(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if configPath != "" {
		cw := config.NewWatcher(configPath, func(cfg *config.Config) {
			if err := a.ApplyConfig(cfg); err != nil {
				slog.Warn("failed to apply reloaded config", "error", err)
				return
			}
			a.trigger(ctx, []string{configPath})
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config hot reload unavailable", "path", configPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	<-ctx.Done()
	a.rerunWG.Wait()
	return nil
}

func (a *App) startWatcher(ctx context.Context) (*watcher.Watcher, error) {
	cfg := a.Config()
	a.rerunLimiter = util.NewIntervalLimiter(cfg.Watch.MinInterval)
	// the first rerun should not wait behind the initial run's token
	a.rerunLimiter.Allow(1)

	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     cfg.Watch.Debounce,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
		Accept:       a.Accepts,
	}, func(paths []string) {
		a.trigger(ctx, paths)
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(a.ScanRoots()); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// trigger coalesces change batches: at most one rerun waits for the limiter
// at a time, and batches arriving meanwhile ride along with it.
func (a *App) trigger(ctx context.Context, paths []string) {
	slog.Info("changes detected", "files", len(paths))

	a.pendingMu.Lock()
	if a.rerunPending {
		a.pendingMu.Unlock()
		return
	}
	a.rerunPending = true
	a.pendingMu.Unlock()

	a.rerunWG.Add(1)
	go func() {
		defer a.rerunWG.Done()
		err := a.rerunLimiter.Wait(ctx, 1)

		a.pendingMu.Lock()
		a.rerunPending = false
		a.pendingMu.Unlock()

		if err != nil {
			return
		}
		if _, err := a.Run(ctx); err != nil {
			slog.Warn("rerun failed", "error", err)
		}
	}()
}

type rerunState struct {
	rerunLimiter *util.Limiter
	pendingMu    sync.Mutex
	rerunPending bool
	rerunWG      sync.WaitGroup
}
