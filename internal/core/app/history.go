package app

import (
	"context"
	"time"

	"incdeps/internal/core/errors"
	"incdeps/internal/data/history"
	"incdeps/internal/engine/graph"
)

var ErrHistoryDisabled = errors.New(errors.CodeNotSupported, "history is disabled; set history.enabled in the config")

func (a *App) recordSnapshot(ctx context.Context, analyzer *graph.Analyzer) (history.Snapshot, error) {
	snapshot := SnapshotOf(analyzer)
	snapshot.CommitHash, snapshot.CommitTimestamp = history.ResolveGitMetadata(ctx, a.Paths().BaseDir)
	return a.history.SaveSnapshot(a.Config().History.Project, snapshot)
}

// SnapshotOf reduces a model to the scalars stored in history.
func SnapshotOf(analyzer *graph.Analyzer) history.Snapshot {
	s := analyzer.Summary()
	snapshot := history.Snapshot{
		FileCount:        s.Files,
		ModuleCount:      s.Modules,
		ModuleEdgeCount:  s.ModuleEdges,
		ComponentCount:   s.Components,
		CycleCount:       s.Cycles,
		ReducedEdgeCount: s.ReducedEdges,
		MaxDepth:         s.MaxDepth,
		UnresolvedCount:  s.Unresolved,
	}

	metrics := analyzer.ModuleMetrics()
	if len(metrics) == 0 {
		return snapshot
	}
	var fanIn, fanOut int
	for _, m := range metrics {
		fanIn += m.FanIn
		fanOut += m.FanOut
		snapshot.MaxFanIn = max(snapshot.MaxFanIn, m.FanIn)
		snapshot.MaxFanOut = max(snapshot.MaxFanOut, m.FanOut)
	}
	snapshot.AvgFanIn = float64(fanIn) / float64(len(metrics))
	snapshot.AvgFanOut = float64(fanOut) / float64(len(metrics))
	return snapshot
}

// Trends loads snapshots recorded since the given time and derives deltas
// and moving averages over the configured window.
func (a *App) Trends(since time.Time, limit int) (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, ErrHistoryDisabled
	}
	cfg := a.Config()
	snapshots, err := a.history.LoadSnapshots(cfg.History.Project, since, limit)
	if err != nil {
		return history.TrendReport{}, err
	}
	return history.BuildTrendReport(cfg.History.Project, snapshots, cfg.History.TrendWindow)
}
