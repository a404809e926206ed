package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch-level counters. Registered on the default registry and served by the
// API's /metrics endpoint.
var (
	ProfilesSimulated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ppa",
		Subsystem: "batch",
		Name:      "profiles_simulated_total",
		Help:      "Profiles simulated and persisted successfully.",
	})

	ProfilesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ppa",
		Subsystem: "batch",
		Name:      "profiles_skipped_total",
		Help:      "Profiles skipped with a diagnostic (missing wind data, zero generation).",
	}, []string{"reason"})

	ProfilesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ppa",
		Subsystem: "batch",
		Name:      "profiles_failed_total",
		Help:      "Profiles that failed with an unexpected error.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ppa",
		Subsystem: "batch",
		Name:      "profile_run_duration_seconds",
		Help:      "Wall time of one profile's end-to-end simulation.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Skip reasons used as label values.
const (
	ReasonNoWindData   = "no_wind_data"
	ReasonNoGeneration = "no_generation"
	ReasonOther        = "other"
)
