package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detector_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	AnalysesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "detector_analyses_total",
			Help: "Total number of completed job analyses.",
		},
	)
	DuplicateSubmissionsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "detector_duplicate_submissions_total",
			Help: "Total number of submissions resolved to an existing analysis.",
		},
	)
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "detector_analysis_duration_seconds",
			Help:    "Duration of each job analysis in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
	AnalysisStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "detector_analysis_step_duration_seconds",
			Help:       "Duration of each step in the analysis pipeline.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
)

func Register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(AnalysesCounter)
	prometheus.MustRegister(DuplicateSubmissionsCounter)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisStepDuration)
}
