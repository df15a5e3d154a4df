package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordRecommendation("CSE", "success", 0.12)
	m.RecordIdentityResolution("swap")
	m.RecordInstructorSkipped("placeholder")
	m.RecordScraperRequest("success", 1.5)
	m.RecordTranscriptParse("success")
	m.RecordHTTPError("malformed_input", "/api/recommendations")
	m.RecordEligibleCourses(3)

	if got := testutil.ToFloat64(m.RecommendationRequestsTotal.WithLabelValues("CSE", "success")); got != 1 {
		t.Errorf("recommendation counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.IdentityResolutionsTotal.WithLabelValues("swap")); got != 1 {
		t.Errorf("identity counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.InstructorsSkippedTotal.WithLabelValues("placeholder")); got != 1 {
		t.Errorf("skip counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPErrorsTotal.WithLabelValues("malformed_input", "/api/recommendations")); got != 1 {
		t.Errorf("http error counter = %v, want 1", got)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected second registration on same registry to panic")
		}
	}()
	New(registry)
}
