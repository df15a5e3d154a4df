package storage

// Course represents one catalog course record.
// Code is the canonical "DEPT NUM" form; requisite fields are comma-separated
// token lists (prerequisite tokens may carry pipe-delimited OR groups written
// by the catalog scraper).
type Course struct {
	Department    string `json:"department"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Prerequisites string `json:"prerequisites,omitempty"`
	Corequisites  string `json:"corequisites,omitempty"`
	Description   string `json:"description,omitempty"`
	Position      int    `json:"position"`
	CachedAt      int64  `json:"cached_at"`
}

// Offering represents one historical course offering with up to five
// instructors and an aggregate grade average.
type Offering struct {
	SubjectID    string   `json:"subject_id"`
	CourseNumber string   `json:"course_number"`
	Title        string   `json:"title,omitempty"`
	Year         int      `json:"year,omitempty"`
	Semester     string   `json:"semester,omitempty"`
	Instructors  []string `json:"instructors"`
	CourseGPA    *float64 `json:"course_gpa,omitempty"`
}

// Professor represents one curated professor directory record.
// Rating is on a 0-5 scale, Difficulty on 1-5; either may be absent.
// Tags is a flat comma-joined string of free-text descriptors.
type Professor struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Department string   `json:"department,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Difficulty *float64 `json:"difficulty,omitempty"`
	Tags       string   `json:"tags,omitempty"`
}
