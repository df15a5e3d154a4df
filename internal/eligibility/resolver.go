// Package eligibility determines which catalog courses a student may take
// next given a completed-course history. Resolution is request-scoped and
// stateless: a catalog plus a completed set in, an ordered eligible set out.
package eligibility

import (
	"strings"

	"github.com/smartadvisors/course-advisor-go/internal/storage"
	"github.com/smartadvisors/course-advisor-go/internal/stringutil"
)

// Set is an ordered collection of eligible courses keyed by canonical course
// code. Insertion order reflects catalog iteration order, with corequisite
// auto-additions appended directly after their triggering course.
type Set struct {
	order   []string
	courses map[string]storage.Course
}

// NewSet returns an empty eligible set.
func NewSet() *Set {
	return &Set{courses: make(map[string]storage.Course)}
}

// Contains reports whether a course code is in the set.
func (s *Set) Contains(code string) bool {
	_, ok := s.courses[code]
	return ok
}

// Get returns the course stored under code.
func (s *Set) Get(code string) (storage.Course, bool) {
	c, ok := s.courses[code]
	return c, ok
}

// Codes returns the course codes in insertion order.
func (s *Set) Codes() []string {
	return s.order
}

// Len returns the number of courses in the set.
func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) add(code string, course storage.Course) {
	if _, ok := s.courses[code]; ok {
		return
	}
	s.courses[code] = course
	s.order = append(s.order, code)
}

// requisiteTokens splits a requisite field into normalized comma-separated
// tokens. A field that is empty or the literal "none" (case-insensitive)
// yields no tokens. Tokens are compared as whole literal strings: a
// pipe-delimited OR group such as "MATH 3133|IE 3301" is one token and is
// never decoded into alternatives. Open product question: the catalog
// scraper writes OR groups in this form, so they can only match a completed
// entry that carries the identical pipe string.
func requisiteTokens(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "none") {
		return nil
	}
	tokens := stringutil.SplitCSV(field)
	for i, t := range tokens {
		tokens[i] = stringutil.NormalizeCode(t)
	}
	return tokens
}

// IsEligible reports whether a course's prerequisites and corequisites are
// satisfiable given the completed set. For a corequisite not yet completed,
// the corequisite must exist in courseMap and only its own prerequisites are
// checked (one level; a coreq's coreqs are not followed). Prerequisites
// referencing codes missing from both the completed set and the catalog fail
// closed.
func IsEligible(course storage.Course, completed map[string]bool, courseMap map[string]storage.Course) bool {
	for _, prereq := range requisiteTokens(course.Prerequisites) {
		if !completed[prereq] {
			return false
		}
	}

	for _, coreq := range requisiteTokens(course.Corequisites) {
		if completed[coreq] {
			continue
		}
		coCourse, ok := courseMap[coreq]
		if !ok {
			return false
		}
		for _, prereq := range requisiteTokens(coCourse.Prerequisites) {
			if !completed[prereq] {
				return false
			}
		}
	}

	return true
}

// Resolve produces the ordered set of next-eligible courses for a catalog
// and a completed-course history. Completed codes are canonicalized before
// comparison; the result never contains a completed course. Immediately
// after an eligible course is inserted, each of its not-yet-completed
// corequisites present in the catalog is inserted too if independently
// eligible (closure is one level deep per triggering course).
func Resolve(allCourses []storage.Course, completedCourses []string) *Set {
	completed := make(map[string]bool, len(completedCourses))
	for _, c := range completedCourses {
		completed[stringutil.NormalizeCode(c)] = true
	}

	courseMap := make(map[string]storage.Course, len(allCourses))
	for _, c := range allCourses {
		courseMap[stringutil.NormalizeCode(c.Code)] = c
	}

	eligible := NewSet()
	for _, course := range allCourses {
		code := stringutil.NormalizeCode(course.Code)
		if completed[code] || eligible.Contains(code) {
			continue
		}
		if !IsEligible(course, completed, courseMap) {
			continue
		}
		eligible.add(code, course)

		for _, coreq := range requisiteTokens(course.Corequisites) {
			if completed[coreq] || eligible.Contains(coreq) {
				continue
			}
			coCourse, ok := courseMap[coreq]
			if !ok {
				continue
			}
			if IsEligible(coCourse, completed, courseMap) {
				eligible.add(coreq, coCourse)
			}
		}
	}

	return eligible
}
