package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fence_files_scanned_total",
		Help: "Total number of Python files scanned.",
	})

	ImportsChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fence_imports_checked_total",
		Help: "Total number of project imports run through the boundary check.",
	})

	BoundaryViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fence_boundary_violations_total",
		Help: "Total number of boundary violations by kind.",
	}, []string{"kind"})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fence_check_duration_seconds",
		Help:    "Time spent running a full boundary check.",
		Buckets: prometheus.DefBuckets,
	})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fence_report_duration_seconds",
		Help:    "Time spent building a dependency report.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fence_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherRescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fence_watcher_rescans_total",
		Help: "Total number of rescans triggered by the watcher.",
	})
)
