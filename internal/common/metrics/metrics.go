// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_match_overall_score",
			Help:    "Overall match score of every ranked opportunity",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	RankingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_ranking_candidates",
			Help:    "Catalog size per ranking call",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	ScenarioBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_scenario_builds_total",
			Help: "Scenario sets built per industry and location tier",
		},
		[]string{"industry", "location_tier"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog and profile loads by source",
		},
		[]string{"kind", "source"},
	)
)

// ObserveRanking records one ranking call.
func ObserveRanking(candidates int, overallScores []float64) {
	RankingCandidates.Observe(float64(candidates))
	for _, s := range overallScores {
		MatchOverallScore.Observe(s)
	}
}
