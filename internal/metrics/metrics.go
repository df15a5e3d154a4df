package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Recommendation pipeline metrics
	RecommendationRequestsTotal *prometheus.CounterVec
	RecommendationDuration      prometheus.Histogram
	EligibleCoursesCount        prometheus.Histogram

	// Identity resolver metrics
	IdentityResolutionsTotal *prometheus.CounterVec

	// Assembler metrics
	InstructorsSkippedTotal *prometheus.CounterVec

	// Transcript metrics
	TranscriptParsesTotal *prometheus.CounterVec

	// Scraper metrics
	ScraperRequestsTotal   *prometheus.CounterVec
	ScraperDurationSeconds prometheus.Histogram

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RecommendationRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_recommendation_requests_total",
				Help: "Total number of recommendation requests by department and status",
			},
			[]string{"department", "status"}, // status: success, not_found, error
		),

		RecommendationDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_recommendation_duration_seconds",
				Help:    "End-to-end recommendation assembly duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
		),

		EligibleCoursesCount: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_eligible_courses",
				Help:    "Number of eligible courses produced per request",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 40, 80},
			},
		),

		IdentityResolutionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_identity_resolutions_total",
				Help: "Total identity resolution attempts by winning strategy",
			},
			[]string{"strategy"}, // strategy: exact, swap, fuzzy, unresolved
		),

		InstructorsSkippedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_instructors_skipped_total",
				Help: "Instructors skipped during assembly by reason",
			},
			[]string{"reason"}, // reason: placeholder, failure
		),

		TranscriptParsesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_transcript_parses_total",
				Help: "Transcript parse attempts by status",
			},
			[]string{"status"}, // status: success, error
		),

		ScraperRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_scraper_requests_total",
				Help: "Total catalog scraper requests by status",
			},
			[]string{"status"}, // status: success, error, not_found
		),

		ScraperDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_scraper_duration_seconds",
				Help:    "Catalog scraper request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"},
		),
	}

	return m
}

// RecordRecommendation records a recommendation request with status and duration
func (m *Metrics) RecordRecommendation(department, status string, duration float64) {
	m.RecommendationRequestsTotal.WithLabelValues(department, status).Inc()
	m.RecommendationDuration.Observe(duration)
}

// RecordEligibleCourses records how many courses a request produced
func (m *Metrics) RecordEligibleCourses(count int) {
	m.EligibleCoursesCount.Observe(float64(count))
}

// RecordIdentityResolution records the winning resolution strategy
func (m *Metrics) RecordIdentityResolution(strategy string) {
	m.IdentityResolutionsTotal.WithLabelValues(strategy).Inc()
}

// RecordInstructorSkipped records a skipped instructor by reason
func (m *Metrics) RecordInstructorSkipped(reason string) {
	m.InstructorsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordTranscriptParse records a transcript parse attempt
func (m *Metrics) RecordTranscriptParse(status string) {
	m.TranscriptParsesTotal.WithLabelValues(status).Inc()
}

// RecordScraperRequest records a scraper request with status
func (m *Metrics) RecordScraperRequest(status string, duration float64) {
	m.ScraperRequestsTotal.WithLabelValues(status).Inc()
	m.ScraperDurationSeconds.Observe(duration)
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, endpoint string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
