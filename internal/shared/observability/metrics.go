package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "layered_parsing_seconds",
		Help:    "Time spent parsing a Rust source file.",
		Buckets: prometheus.DefBuckets,
	})

	ExpansionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "layered_expansion_seconds",
		Help:    "Time spent validating and projecting one layered module.",
		Buckets: prometheus.DefBuckets,
	})

	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "layered_files_processed_total",
		Help: "Total number of files processed, by outcome.",
	}, []string{"status"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "layered_diagnostics_total",
		Help: "Total number of diagnostics reported, by kind.",
	}, []string{"kind"})

	GraphModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "layered_graph_modules",
		Help: "Number of modules in the last expanded layered namespace.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "layered_graph_edges",
		Help: "Number of validated dependency edges in the last expanded layered namespace.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layered_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRunsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layered_watch_runs_throttled_total",
		Help: "Total number of watch re-runs delayed by the rate limiter.",
	})
)

// File outcome labels for FilesProcessedTotal.
const (
	StatusExpanded = "expanded"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)
