package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domerrors "github.com/smartadvisors/course-advisor-go/internal/errors"
	"github.com/smartadvisors/course-advisor-go/internal/stringutil"
)

// GetOfferingsForCourse retrieves the historical offerings for a canonical
// "DEPT NUM" course code, most recent term first. An empty slice (not an
// error) means the course was never offered. Blank instructor slots and the
// literal "none" placeholder are filtered at scan time.
func (db *DB) GetOfferingsForCourse(ctx context.Context, courseCode string) ([]Offering, error) {
	parts := strings.Fields(courseCode)
	if len(parts) != 2 || !stringutil.IsNumeric(parts[1]) {
		return nil, fmt.Errorf("course code %q is not of the form \"DEPT NUM\": %w", courseCode, domerrors.ErrInvalidInput)
	}
	subject, number := parts[0], parts[1]

	query := `
		SELECT subject_id, course_number, title, year, semester,
			instructor1, instructor2, instructor3, instructor4, instructor5, course_gpa
		FROM offerings WHERE subject_id = ? AND course_number = ?
		ORDER BY year DESC, semester DESC, id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, subject, number)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query offerings",
			"course", courseCode,
			"error", err)
		return nil, fmt.Errorf("query offerings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offerings := make([]Offering, 0, 8)
	for rows.Next() {
		var o Offering
		var title, semester sql.NullString
		var year sql.NullInt64
		var gpa sql.NullFloat64
		var slots [5]sql.NullString

		if err := rows.Scan(&o.SubjectID, &o.CourseNumber, &title, &year, &semester,
			&slots[0], &slots[1], &slots[2], &slots[3], &slots[4], &gpa); err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}

		o.Title = title.String
		o.Year = int(year.Int64)
		o.Semester = semester.String
		if gpa.Valid {
			v := gpa.Float64
			o.CourseGPA = &v
		}

		for _, slot := range slots {
			name := strings.TrimSpace(slot.String)
			if name == "" || strings.EqualFold(name, "none") {
				continue
			}
			o.Instructors = append(o.Instructors, name)
		}

		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offerings: %w", err)
	}

	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database query",
			"operation", "GetOfferingsForCourse",
			"duration_ms", duration.Milliseconds(),
			"course", courseCode,
			"count", len(offerings))
	}

	return offerings, nil
}

// SaveOffering inserts one historical offering record.
// Instructor slots beyond the provided list are stored NULL.
func (db *DB) SaveOffering(ctx context.Context, offering *Offering) error {
	var slots [5]any
	for i := range slots {
		if i < len(offering.Instructors) {
			slots[i] = offering.Instructors[i]
		}
	}

	query := `
		INSERT INTO offerings (subject_id, course_number, title, year, semester,
			instructor1, instructor2, instructor3, instructor4, instructor5, course_gpa, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var gpa any
	if offering.CourseGPA != nil {
		gpa = *offering.CourseGPA
	}
	_, err := db.conn.ExecContext(ctx, query,
		offering.SubjectID, offering.CourseNumber, offering.Title,
		offering.Year, offering.Semester,
		slots[0], slots[1], slots[2], slots[3], slots[4],
		gpa, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save offering",
			"course", offering.SubjectID+" "+offering.CourseNumber,
			"error", err)
		return fmt.Errorf("save offering: %w", err)
	}
	return nil
}

// CountOfferings returns the total number of stored offerings.
func (db *DB) CountOfferings(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM offerings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count offerings: %w", err)
	}
	return count, nil
}
