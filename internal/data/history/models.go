package history

import "time"

const SchemaVersion = 1

// Snapshot is the scalar summary of one analysis run.
type Snapshot struct {
	RunID            string    `json:"run_id"`
	ProjectKey       string    `json:"project_key"`
	SchemaVersion    int       `json:"schema_version"`
	Timestamp        time.Time `json:"timestamp"`
	CommitHash       string    `json:"commit_hash,omitempty"`
	CommitTimestamp  time.Time `json:"commit_timestamp,omitempty"`
	FileCount        int       `json:"file_count"`
	ModuleCount      int       `json:"module_count"`
	ModuleEdgeCount  int       `json:"module_edge_count"`
	ComponentCount   int       `json:"component_count"`
	CycleCount       int       `json:"cycle_count"`
	ReducedEdgeCount int       `json:"reduced_edge_count"`
	MaxDepth         int       `json:"max_depth"`
	UnresolvedCount  int       `json:"unresolved_count"`
	AvgFanIn         float64   `json:"avg_fan_in"`
	AvgFanOut        float64   `json:"avg_fan_out"`
	MaxFanIn         int       `json:"max_fan_in"`
	MaxFanOut        int       `json:"max_fan_out"`
}

type TrendPoint struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	CommitHash      string    `json:"commit_hash,omitempty"`
	FileCount       int       `json:"file_count"`
	ModuleCount     int       `json:"module_count"`
	CycleCount      int       `json:"cycle_count"`
	MaxDepth        int       `json:"max_depth"`
	UnresolvedCount int       `json:"unresolved_count"`
	AvgFanIn        float64   `json:"avg_fan_in"`
	AvgFanOut       float64   `json:"avg_fan_out"`
	DeltaModules    int       `json:"delta_modules"`
	DeltaFiles      int       `json:"delta_files"`
	DeltaCycles     int       `json:"delta_cycles"`
	DeltaMaxDepth   int       `json:"delta_max_depth"`
	DeltaUnresolved int       `json:"delta_unresolved"`
	ModuleGrowthPct float64   `json:"module_growth_pct"`
	AvgCycles       float64   `json:"avg_cycles"`
	AvgUnresolved   float64   `json:"avg_unresolved"`
	WindowHours     float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	ProjectKey    string       `json:"project_key"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
