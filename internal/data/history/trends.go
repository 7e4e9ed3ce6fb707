package history

import (
	"fmt"
	"math"
	"time"
)

// BuildTrendReport derives per-run deltas and moving averages from snapshots
// ordered oldest first.
func BuildTrendReport(projectKey string, snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			RunID:           current.RunID,
			Timestamp:       current.Timestamp,
			CommitHash:      current.CommitHash,
			FileCount:       current.FileCount,
			ModuleCount:     current.ModuleCount,
			CycleCount:      current.CycleCount,
			MaxDepth:        current.MaxDepth,
			UnresolvedCount: current.UnresolvedCount,
			AvgFanIn:        current.AvgFanIn,
			AvgFanOut:       current.AvgFanOut,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaModules = current.ModuleCount - prev.ModuleCount
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaCycles = current.CycleCount - prev.CycleCount
			point.DeltaMaxDepth = current.MaxDepth - prev.MaxDepth
			point.DeltaUnresolved = current.UnresolvedCount - prev.UnresolvedCount
			if prev.ModuleCount > 0 {
				point.ModuleGrowthPct = round2(float64(point.DeltaModules) / float64(prev.ModuleCount) * 100)
			}
		}

		avgCycles, avgUnresolved := movingAverages(snapshots, i, window)
		point.AvgCycles = round2(avgCycles)
		point.AvgUnresolved = round2(avgUnresolved)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		ProjectKey:    projectKey,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].CycleCount), float64(snapshots[index].UnresolvedCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var cyclesTotal int
	var unresolvedTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		cyclesTotal += snapshots[i].CycleCount
		unresolvedTotal += snapshots[i].UnresolvedCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(cyclesTotal) / float64(count), float64(unresolvedTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
