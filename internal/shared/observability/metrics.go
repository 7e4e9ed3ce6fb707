package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "incdeps_parsing_seconds",
		Help:    "Time spent extracting include directives from a source file.",
		Buckets: prometheus.DefBuckets,
	})

	ParseCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incdeps_parse_cache_hits_total",
		Help: "Total number of file records served from the parse cache.",
	})

	GraphModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incdeps_graph_modules_total",
		Help: "Number of modules in the last analyzed dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incdeps_graph_edges_total",
		Help: "Number of module-level dependency edges in the last analysis.",
	})

	GraphComponents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incdeps_graph_components_total",
		Help: "Number of strongly connected components in the last analysis.",
	})

	GraphCycles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incdeps_graph_cycles_total",
		Help: "Number of components with more than one member in the last analysis.",
	})

	GraphReducedEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incdeps_graph_reduced_edges_total",
		Help: "Number of component edges left after transitive reduction.",
	})

	GraphMaxDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "incdeps_graph_max_depth",
		Help: "Longest dependency chain in the reduced component graph.",
	})

	UnresolvedIncludesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incdeps_unresolved_includes_total",
		Help: "Total number of include references that matched no in-scope file.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "incdeps_analysis_seconds",
		Help:    "Time spent on analysis stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incdeps_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incdeps_runs_total",
		Help: "Total number of analysis runs by outcome.",
	}, []string{"outcome"})
)
