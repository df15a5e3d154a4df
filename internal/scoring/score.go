// Package scoring computes preference-weighted match scores for professors.
// The scorer is pure: a directory record plus a preference set in, a single
// rounded score out. Tag checks are case-insensitive substring tests against
// the record's comma-joined tag string.
package scoring

import (
	"math"
	"strings"

	"github.com/smartadvisors/course-advisor-go/internal/storage"
)

// Scoring constants. Ratings and difficulties live on a 0-5 scale.
const (
	defaultBaseScore  = 2.5
	defaultDifficulty = 3.0
)

// Preferences is the flat set of boolean study preferences a student submits.
// Field names mirror the request payload keys; absent keys unmarshal to false.
type Preferences struct {
	ExtraCredit      bool `json:"extraCredit"`
	EasyGrader       bool `json:"easyGrader"`
	ClearGrading     bool `json:"clearGrading"`
	Caring           bool `json:"caring"`
	GoodFeedback     bool `json:"goodFeedback"`
	LectureHeavy     bool `json:"lectureHeavy"`
	GroupProjects    bool `json:"groupProjects"`
	TestHeavy        bool `json:"testHeavy"`
	HomeworkHeavy    bool `json:"homeworkHeavy"`
	StrictAttendance bool `json:"strictAttendance"`
	PopQuizzes       bool `json:"popQuizzes"`
}

// containsAny reports whether tags contains at least one of the needles.
func containsAny(tags string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(tags, n) {
			return true
		}
	}
	return false
}

// Score computes the match score for a professor under the given preferences.
// A nil record scores 0.0. Otherwise the score starts at the quality rating
// (2.5 when absent) and each rule below adjusts it in order; the result is
// rounded to one decimal place and may exceed 5 or go negative.
func Score(prof *storage.Professor, prefs Preferences) float64 {
	if prof == nil {
		return 0.0
	}

	score := defaultBaseScore
	if prof.Rating != nil {
		score = *prof.Rating
	}

	difficulty := defaultDifficulty
	if prof.Difficulty != nil {
		difficulty = *prof.Difficulty
	}

	tags := strings.ToLower(prof.Tags)

	if prefs.ExtraCredit && strings.Contains(tags, "extra credit") {
		score += 1.0
	}

	if prefs.EasyGrader || prefs.ClearGrading {
		// Low difficulty earns up to +2.0 at difficulty 1.0.
		score += (5.0 - difficulty) * 0.5
		if containsAny(tags, "easy grader", "clear grading", "graded by few things") {
			score += 1.0
		}
		if containsAny(tags, "tough grader", "hard grader") {
			score -= 1.5
		}
	}

	if prefs.Caring || prefs.GoodFeedback {
		if containsAny(tags, "caring", "respected", "inspirational", "accessible", "good feedback") {
			score += 1.2
		}
	}

	if prefs.LectureHeavy {
		if strings.Contains(tags, "amazing lectures") {
			score += 1.5
		} else if strings.Contains(tags, "lecture heavy") {
			score += 0.5
		}
	}

	if prefs.GroupProjects {
		if strings.Contains(tags, "group projects") {
			score += 1.0
		}
	} else if strings.Contains(tags, "group projects") {
		score -= 0.5
	}

	// Deal breakers: penalties apply unless the student opted in.
	if !prefs.TestHeavy && containsAny(tags, "test heavy", "tests are tough") {
		score -= 1.5
	}
	if !prefs.HomeworkHeavy && containsAny(tags, "lots of homework", "so many papers") {
		score -= 1.0
	}
	if !prefs.StrictAttendance && containsAny(tags, "attendance mandatory", "skip class") {
		score -= 1.0
	}
	if !prefs.PopQuizzes && strings.Contains(tags, "pop quizzes") {
		score -= 2.0
	}

	return math.Round(score*10) / 10
}

// DifficultyBucket maps a numeric difficulty to its display label.
// A missing difficulty reads as Moderate.
func DifficultyBucket(difficulty *float64) string {
	if difficulty == nil {
		return "Moderate"
	}
	switch {
	case *difficulty < 2.5:
		return "Easy"
	case *difficulty > 3.8:
		return "Hard"
	default:
		return "Moderate"
	}
}
