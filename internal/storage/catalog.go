package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/smartadvisors/course-advisor-go/internal/errors"
)

// GetDepartmentCourses retrieves the full catalog for a department in
// catalog page order. Returns domerrors.ErrNotFound when no data exists
// for the department.
func (db *DB) GetDepartmentCourses(ctx context.Context, department string) ([]Course, error) {
	query := `
		SELECT department, code, name, prerequisites, corequisites, description, position, cached_at
		FROM courses WHERE department = ? ORDER BY position, code`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, department)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query department courses",
			"department", department,
			"error", err)
		return nil, fmt.Errorf("query department courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var courses []Course
	for rows.Next() {
		var c Course
		var prereqs, coreqs, desc sql.NullString
		if err := rows.Scan(&c.Department, &c.Code, &c.Name, &prereqs, &coreqs, &desc, &c.Position, &c.CachedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		c.Prerequisites = prereqs.String
		c.Corequisites = coreqs.String
		c.Description = desc.String
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	if len(courses) == 0 {
		return nil, fmt.Errorf("department %s: %w", department, domerrors.ErrNotFound)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database query",
			"operation", "GetDepartmentCourses",
			"duration_ms", duration.Milliseconds(),
			"department", department,
			"count", len(courses))
	}

	return courses, nil
}

// CourseExists reports whether a course code is already stored for a department.
// Used by the catalog ingest to avoid re-scraping prerequisite departments.
func (db *DB) CourseExists(ctx context.Context, department, code string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM courses WHERE department = ? AND code = ?`, department, code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check course existence: %w", err)
	}
	return true, nil
}

// SaveCourse inserts or updates a single catalog course record.
func (db *DB) SaveCourse(ctx context.Context, course *Course) error {
	query := `
		INSERT INTO courses (department, code, name, prerequisites, corequisites, description, position, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(department, code) DO UPDATE SET
			name = excluded.name,
			prerequisites = excluded.prerequisites,
			corequisites = excluded.corequisites,
			description = excluded.description,
			position = excluded.position,
			cached_at = excluded.cached_at
	`
	_, err := db.conn.ExecContext(ctx, query,
		course.Department, course.Code, course.Name,
		course.Prerequisites, course.Corequisites, course.Description,
		course.Position, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save course",
			"course", course.Code,
			"error", err)
		return fmt.Errorf("save course %s: %w", course.Code, err)
	}
	return nil
}

// SaveCoursesBatch inserts or updates multiple catalog courses in a single
// transaction. Reduces lock contention during department ingest.
func (db *DB) SaveCoursesBatch(ctx context.Context, courses []*Course) error {
	if len(courses) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO courses (department, code, name, prerequisites, corequisites, description, position, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(department, code) DO UPDATE SET
			name = excluded.name,
			prerequisites = excluded.prerequisites,
			corequisites = excluded.corequisites,
			description = excluded.description,
			position = excluded.position,
			cached_at = excluded.cached_at
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	start := time.Now()
	cachedAt := time.Now().Unix()
	for _, course := range courses {
		if _, err := stmt.ExecContext(ctx,
			course.Department, course.Code, course.Name,
			course.Prerequisites, course.Corequisites, course.Description,
			course.Position, cachedAt); err != nil {
			slog.ErrorContext(ctx, "failed to save course in batch",
				"course", course.Code,
				"error", err)
			return fmt.Errorf("save course %s: %w", course.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	duration := time.Since(start)
	slog.DebugContext(ctx, "batch operation completed",
		"operation", "SaveCoursesBatch",
		"count", len(courses),
		"duration_ms", duration.Milliseconds())

	return nil
}

// CountCourses returns the total number of stored catalog courses.
func (db *DB) CountCourses(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}
