// Package metrics holds the Prometheus collectors for the skill-matcher service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the HTTP API and the analysis pipeline.
type Metrics struct {
	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Pipeline
	MatchScore         prometheus.Histogram
	MissingSkillsTotal *prometheus.CounterVec
	DocumentsTotal     *prometheus.CounterVec
	AnalysesSaved      prometheus.Counter
}

// NewMetrics creates and registers the collectors.
//
// Registration happens once per process; later calls return the same Metrics.
//
// Metrics:
//   - skillmatch_http_requests_total{endpoint,status}
//   - skillmatch_http_request_duration_seconds{endpoint}
//   - skillmatch_match_score - overall scores produced by /match and /analyze
//   - skillmatch_missing_skills_total{category} - missing skills reported per category
//   - skillmatch_documents_total{file_type,result} - uploaded documents by format and outcome
//   - skillmatch_analyses_saved_total - analyses written to the history store
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "skillmatch_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"endpoint", "status"},
			),

			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "skillmatch_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
				},
				[]string{"endpoint"},
			),

			MatchScore: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "skillmatch_match_score",
					Help:    "Overall match scores (0-100)",
					Buckets: prometheus.LinearBuckets(10, 10, 10),
				},
			),

			MissingSkillsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "skillmatch_missing_skills_total",
					Help: "Total number of missing skills reported",
				},
				[]string{"category"},
			),

			DocumentsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "skillmatch_documents_total",
					Help: "Total number of uploaded documents processed",
				},
				[]string{"file_type", "result"}, // result: "ok" or "error"
			),

			AnalysesSaved: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "skillmatch_analyses_saved_total",
					Help: "Total number of analyses persisted",
				},
			),
		}
	})
	return globalMetrics
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveMatch records the outcome of one match.
func (m *Metrics) ObserveMatch(overall float64, missingTechnical, missingSoft int) {
	m.MatchScore.Observe(overall)
	m.MissingSkillsTotal.WithLabelValues("technical").Add(float64(missingTechnical))
	m.MissingSkillsTotal.WithLabelValues("soft").Add(float64(missingSoft))
}

// ObserveDocument records one uploaded document.
func (m *Metrics) ObserveDocument(fileType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if fileType == "" {
		fileType = "unknown"
	}
	m.DocumentsTotal.WithLabelValues(fileType, result).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
