package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"incdeps/internal/engine/graph"
	"incdeps/internal/shared/observability"
)

// Run performs one full pass: scan, analyze, write outputs and record a
// history snapshot. The model is always rebuilt from the scanned files.
func (a *App) Run(ctx context.Context) (*graph.Analyzer, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	start := time.Now()
	analyzer, err := a.run(ctx)
	duration := time.Since(start)

	a.stateMu.Lock()
	a.lastRun = start
	a.lastErr = err
	if err == nil {
		a.current = analyzer
	}
	a.stateMu.Unlock()

	update := Update{Duration: duration, Err: err}
	if err != nil {
		observability.RunsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("analysis failed", "error", err, "duration", duration)
	} else {
		observability.RunsTotal.WithLabelValues("ok").Inc()
		update.Summary = analyzer.Summary()
		update.Cycles = analyzer.Cycles()
		span.SetAttributes(
			attribute.Int("incdeps.files", update.Summary.Files),
			attribute.Int("incdeps.modules", update.Summary.Modules),
			attribute.Int("incdeps.cycles", update.Summary.Cycles),
			attribute.Int("incdeps.max_depth", update.Summary.MaxDepth),
		)
		slog.Info("analysis complete",
			"files", update.Summary.Files,
			"modules", update.Summary.Modules,
			"components", update.Summary.Components,
			"cycles", update.Summary.Cycles,
			"max_depth", update.Summary.MaxDepth,
			"unresolved", update.Summary.Unresolved,
			"duration", duration,
		)
	}
	a.emitUpdate(update)

	return analyzer, err
}

func (a *App) run(ctx context.Context) (*graph.Analyzer, error) {
	cfg := a.Config()
	files, err := a.ScanDirectories(a.ScanRoots(), cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := a.LoadRecords(files)
	slog.Debug("scan finished", "files", len(files), "records", len(records), "cached", a.cache.Len())

	analyzer, err := graph.NewAnalyzer(records)
	if err != nil {
		return nil, err
	}

	if err := a.GenerateOutputs(ctx, analyzer); err != nil {
		return nil, err
	}

	if a.history != nil {
		if _, err := a.recordSnapshot(ctx, analyzer); err != nil {
			// history is best effort; outputs were already written
			slog.Warn("failed to record history snapshot", "error", err)
		}
	}

	return analyzer, nil
}
