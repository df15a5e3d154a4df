package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createCoursesTable(db); err != nil {
		return err
	}

	if err := createOfferingsTable(db); err != nil {
		return err
	}

	return createProfessorsTable(db)
}

// createCoursesTable creates the department catalog table.
// position preserves catalog page order so eligibility resolution iterates
// courses the way the catalog lists them.
func createCoursesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS courses (
		department TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		prerequisites TEXT,
		corequisites TEXT,
		description TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		cached_at INTEGER NOT NULL,
		PRIMARY KEY (department, code)
	);
	CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department, position);
	CREATE INDEX IF NOT EXISTS idx_courses_code ON courses(code);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create courses table: %w", err)
	}

	return nil
}

// createOfferingsTable creates the historical offerings table.
// Column layout mirrors the grade-data source: up to five instructor slots
// per offering, unused slots left NULL.
func createOfferingsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS offerings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id TEXT NOT NULL,
		course_number TEXT NOT NULL,
		title TEXT,
		year INTEGER,
		semester TEXT,
		instructor1 TEXT,
		instructor2 TEXT,
		instructor3 TEXT,
		instructor4 TEXT,
		instructor5 TEXT,
		course_gpa REAL,
		cached_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_offerings_course ON offerings(subject_id, course_number);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create offerings table: %w", err)
	}

	return nil
}

// createProfessorsTable creates the curated professor directory.
// INTEGER PRIMARY KEY gives substring lookups a stable tie-break order.
func createProfessorsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS professors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		department TEXT,
		quality_rating REAL,
		difficulty_rating REAL,
		tags TEXT,
		cached_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_professors_name ON professors(name COLLATE NOCASE);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create professors table: %w", err)
	}

	return nil
}
