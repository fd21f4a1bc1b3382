package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benchlens_parse_attempts_total",
		Help: "Total number of benchmark methods handed to the engine.",
	})

	ParseSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benchlens_parse_success_total",
		Help: "Total number of methods parsed into a result record.",
	})

	ParseFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "benchlens_parse_failures_total",
		Help: "Total number of skipped methods, by failure reason.",
	}, []string{"reason"})

	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "benchlens_parsing_seconds",
		Help:    "Time spent parsing one source file and extracting one method.",
		Buckets: prometheus.DefBuckets,
	})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "benchlens_batch_seconds",
		Help:    "Wall time of a full batch run.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	BatchSuccessRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "benchlens_batch_success_rate",
		Help: "Success rate percentage of the most recent batch run.",
	})

	PackageAccessesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benchlens_package_accesses_extracted_total",
		Help: "Total number of resolved symbol references tallied across all parsed methods.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benchlens_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	SpoolDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "benchlens_result_spool_depth",
		Help: "Current number of result records waiting in the persistent spool.",
	})

	SpoolRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benchlens_result_spool_recovered_total",
		Help: "Total number of result records recovered from the spool of an interrupted run.",
	})

	SinkFlushLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "benchlens_sink_flush_seconds",
		Help:    "Latency for writing the result file.",
		Buckets: prometheus.DefBuckets,
	})
)
