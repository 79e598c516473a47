package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// analysesTotal counts completed analyses.
	// Labels: language (java, php, python, unknown), mode (single, merged)
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "umlparse",
		Subsystem: "analyze",
		Name:      "requests_total",
		Help:      "Total completed analyses by resolved language and dispatch mode",
	}, []string{"language", "mode"})

	// rejectedTotal counts requests refused before analysis.
	// Labels: reason (no_code, too_large, bad_request, rate_limited)
	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "umlparse",
		Subsystem: "analyze",
		Name:      "rejected_total",
		Help:      "Requests rejected before analysis by reason",
	}, []string{"reason"})

	elementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "umlparse",
		Subsystem: "analyze",
		Name:      "elements_total",
		Help:      "Structural elements extracted by kind",
	}, []string{"kind"})

	analyzeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "umlparse",
		Subsystem: "analyze",
		Name:      "duration_seconds",
		Help:      "Time spent in detection and extraction",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

// recordAnalysis records one completed analysis
func recordAnalysis(language, mode string, classes, functions, relationships int, seconds float64) {
	if language == "" {
		language = "unknown"
	}
	analysesTotal.WithLabelValues(language, mode).Inc()
	elementsTotal.WithLabelValues("class").Add(float64(classes))
	elementsTotal.WithLabelValues("function").Add(float64(functions))
	elementsTotal.WithLabelValues("relationship").Add(float64(relationships))
	analyzeSeconds.Observe(seconds)
}

// recordRejected records a request refused before analysis
func recordRejected(reason string) {
	rejectedTotal.WithLabelValues(reason).Inc()
}
