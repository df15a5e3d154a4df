// Package recommend assembles course recommendations. It runs the full
// pipeline for a request: load the department catalog, resolve eligibility,
// walk each eligible course's offering history, link instructors to directory
// records, score them against the student's preferences, and emit ranked
// professor lists per course.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/smartadvisors/course-advisor-go/internal/eligibility"
	"github.com/smartadvisors/course-advisor-go/internal/errors"
	"github.com/smartadvisors/course-advisor-go/internal/logger"
	"github.com/smartadvisors/course-advisor-go/internal/metrics"
	"github.com/smartadvisors/course-advisor-go/internal/professor"
	"github.com/smartadvisors/course-advisor-go/internal/scoring"
	"github.com/smartadvisors/course-advisor-go/internal/sliceutil"
	"github.com/smartadvisors/course-advisor-go/internal/storage"
)

// placeholderNames are instructor slot values that never identify a person.
var placeholderNames = map[string]bool{
	"":        true,
	"staff":   true,
	"tba":     true,
	"unknown": true,
}

// ProfessorRecommendation is one ranked instructor entry for a course.
type ProfessorRecommendation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Rating     float64  `json:"rating"`
	Difficulty string   `json:"difficulty"`
	MatchScore float64  `json:"matchScore"`
	Schedule   string   `json:"schedule"`
	Tags       []string `json:"tags"`

	// Reserved response fields the client renders with fixed fallbacks.
	ReviewCount    int    `json:"reviewCount"`
	ClassSize      string `json:"classSize"`
	AssessmentType string `json:"assessmentType"`
	Attendance     string `json:"attendance"`
}

// CourseRecommendation pairs an eligible course with its ranked professors.
type CourseRecommendation struct {
	CourseCode string                    `json:"courseCode"`
	CourseName string                    `json:"courseName"`
	Professors []ProfessorRecommendation `json:"professors"`
}

// instructorOffering pairs a raw instructor name with the offering it was
// first seen on.
type instructorOffering struct {
	name     string
	offering storage.Offering
}

// Engine runs the recommendation pipeline.
type Engine struct {
	catalog   storage.CatalogRepository
	offerings storage.OfferingsRepository
	resolver  *professor.Resolver
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewEngine wires a recommendation engine from its dependencies.
func NewEngine(
	catalog storage.CatalogRepository,
	offerings storage.OfferingsRepository,
	resolver *professor.Resolver,
	log *logger.Logger,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		catalog:   catalog,
		offerings: offerings,
		resolver:  resolver,
		log:       log.WithModule("recommend"),
		metrics:   m,
	}
}

// Recommend produces the ranked recommendation list for a department given
// the student's completed courses and preferences. A department with no
// cached catalog returns errors.ErrNotFound. Offering or directory failures
// for a single instructor degrade that entry, never the request.
func (e *Engine) Recommend(ctx context.Context, department string, completed []string, prefs scoring.Preferences) ([]CourseRecommendation, error) {
	start := time.Now()

	courses, err := e.catalog.GetDepartmentCourses(ctx, department)
	if err != nil {
		return nil, errors.Wrap("recommend", "load catalog", err, "could not load the course catalog for "+department)
	}

	eligible := eligibility.Resolve(courses, completed)
	e.metrics.RecordEligibleCourses(eligible.Len())

	result := make([]CourseRecommendation, 0, eligible.Len())
	for _, code := range eligible.Codes() {
		course, _ := eligible.Get(code)
		professors := e.assembleProfessors(ctx, code, prefs)
		result = append(result, CourseRecommendation{
			CourseCode: code,
			CourseName: course.Name,
			Professors: professors,
		})
	}

	e.log.WithFields(map[string]any{
		"department": department,
		"completed":  len(completed),
		"eligible":   eligible.Len(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("recommendations assembled")

	return result, nil
}

// assembleProfessors builds the ranked professor list for one course from its
// offering history. Placeholder instructor slots are dropped, raw names are
// deduplicated on first appearance, and every surviving entry is scored. The
// sort is stable so equal scores keep their recency order.
func (e *Engine) assembleProfessors(ctx context.Context, courseCode string, prefs scoring.Preferences) []ProfessorRecommendation {
	offerings, err := e.offerings.GetOfferingsForCourse(ctx, courseCode)
	if err != nil {
		e.log.WithError(err).WithField("course", courseCode).Warn("offering lookup failed, course proceeds without professors")
		offerings = nil
	}

	// Flatten the offering history into (instructor, offering) pairs, drop
	// placeholder slots, and keep the first appearance of each raw name. The
	// offerings come most recent first, so the kept pair carries the latest
	// schedule and section GPA for that instructor.
	var pairs []instructorOffering
	for _, offering := range offerings {
		for _, rawName := range offering.Instructors {
			if placeholderNames[strings.ToLower(strings.TrimSpace(rawName))] {
				e.metrics.RecordInstructorSkipped("placeholder")
				continue
			}
			pairs = append(pairs, instructorOffering{name: rawName, offering: offering})
		}
	}
	pairs = sliceutil.Deduplicate(pairs, func(p instructorOffering) string { return p.name })

	professors := make([]ProfessorRecommendation, 0, len(pairs))
	for _, pair := range pairs {
		entry, ok := e.buildEntry(ctx, pair.name, pair.offering, prefs, len(professors))
		if !ok {
			continue
		}
		professors = append(professors, entry)
	}

	stableSortByScoreDesc(professors)
	return professors
}

// buildEntry resolves, scores, and formats a single instructor. Any failure,
// including a panic from malformed directory data, skips only this entry.
func (e *Engine) buildEntry(ctx context.Context, rawName string, offering storage.Offering, prefs scoring.Preferences, position int) (entry ProfessorRecommendation, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("instructor", rawName).Error("instructor entry panicked, skipping", "panic", r)
			e.metrics.RecordInstructorSkipped("failure")
			ok = false
		}
	}()

	record, strategy, err := e.resolver.Resolve(ctx, rawName)
	if err != nil {
		e.log.WithError(err).WithField("instructor", rawName).Warn("identity lookup failed, skipping instructor")
		e.metrics.RecordInstructorSkipped("failure")
		return ProfessorRecommendation{}, false
	}
	e.metrics.RecordIdentityResolution(string(strategy))

	entry = ProfessorRecommendation{
		ID:             fmt.Sprintf("%d", position),
		Name:           rawName,
		Rating:         displayRating(record, offering.CourseGPA),
		Difficulty:     "Moderate",
		MatchScore:     scoring.Score(record, prefs),
		Schedule:       formatSchedule(offering),
		Tags:           []string{},
		ReviewCount:    0,
		ClassSize:      "Unknown",
		AssessmentType: "Unknown",
		Attendance:     "Unknown",
	}
	if record != nil {
		entry.Difficulty = scoring.DifficultyBucket(record.Difficulty)
		if record.Tags != "" {
			entry.Tags = strings.Split(record.Tags, ",")
		}
	}
	return entry, true
}

// displayRating picks the headline rating for an entry: the directory quality
// rating when the instructor resolved with one, otherwise the offering's
// section GPA rounded to one decimal, otherwise zero.
func displayRating(record *storage.Professor, courseGPA *float64) float64 {
	if record != nil && record.Rating != nil {
		return *record.Rating
	}
	if courseGPA != nil {
		return roundTenth(*courseGPA)
	}
	return 0.0
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// formatSchedule renders "2024 Fall" style labels, trimming when either part
// is missing.
func formatSchedule(offering storage.Offering) string {
	year := ""
	if offering.Year != 0 {
		year = fmt.Sprintf("%d", offering.Year)
	}
	return strings.TrimSpace(year + " " + offering.Semester)
}

// stableSortByScoreDesc orders entries by match score, highest first, keeping
// input order among ties.
func stableSortByScoreDesc(entries []ProfessorRecommendation) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MatchScore > entries[j].MatchScore
	})
}
