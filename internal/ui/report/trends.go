package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"incdeps/internal/data/history"
)

func RenderTrendTSV(report history.TrendReport) []byte {
	var buf strings.Builder

	buf.WriteString("RunID\tTimestamp\tCommit\tFiles\tModules\tCycles\tMaxDepth\tUnresolved\tAvgFanIn\tAvgFanOut\tDeltaModules\tDeltaFiles\tDeltaCycles\tDeltaMaxDepth\tDeltaUnresolved\tModuleGrowthPct\tAvgCycles\tAvgUnresolved\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			point.RunID,
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.CommitHash,
			point.FileCount,
			point.ModuleCount,
			point.CycleCount,
			point.MaxDepth,
			point.UnresolvedCount,
			point.AvgFanIn,
			point.AvgFanOut,
			point.DeltaModules,
			point.DeltaFiles,
			point.DeltaCycles,
			point.DeltaMaxDepth,
			point.DeltaUnresolved,
			point.ModuleGrowthPct,
			point.AvgCycles,
			point.AvgUnresolved,
			point.WindowHours,
		))
	}

	return []byte(buf.String())
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
