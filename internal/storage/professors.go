package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

const professorColumns = `id, name, department, quality_rating, difficulty_rating, tags`

func scanProfessor(row *sql.Row) (*Professor, error) {
	var p Professor
	var dept, tags sql.NullString
	var rating, difficulty sql.NullFloat64

	err := row.Scan(&p.ID, &p.Name, &dept, &rating, &difficulty, &tags)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan professor: %w", err)
	}

	p.Department = dept.String
	p.Tags = tags.String
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	if difficulty.Valid {
		v := difficulty.Float64
		p.Difficulty = &v
	}
	return &p, nil
}

// GetProfessorByName performs a case-insensitive exact name lookup.
// Returns (nil, nil) when no record matches; ties break by lowest id.
func (db *DB) GetProfessorByName(ctx context.Context, name string) (*Professor, error) {
	query := `SELECT ` + professorColumns + `
		FROM professors WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1`

	prof, err := scanProfessor(db.conn.QueryRowContext(ctx, query, name))
	if err != nil {
		slog.ErrorContext(ctx, "failed to query professor",
			"name", name,
			"error", err)
		return nil, fmt.Errorf("query professor: %w", err)
	}
	return prof, nil
}

// SearchProfessorBySubstring performs a case-insensitive substring lookup.
// LIKE wildcards in the needle are escaped. Returns (nil, nil) on no match;
// when multiple rows match, the lowest id wins so the result is deterministic.
func (db *DB) SearchProfessorBySubstring(ctx context.Context, needle string) (*Professor, error) {
	if needle == "" {
		return nil, nil
	}

	query := `SELECT ` + professorColumns + `
		FROM professors WHERE name LIKE '%' || ? || '%' ESCAPE '\' ORDER BY id LIMIT 1`

	prof, err := scanProfessor(db.conn.QueryRowContext(ctx, query, sanitizeSearchTerm(needle)))
	if err != nil {
		slog.ErrorContext(ctx, "failed to search professor",
			"needle", needle,
			"error", err)
		return nil, fmt.Errorf("search professor: %w", err)
	}
	return prof, nil
}

// SaveProfessor inserts a professor directory record and assigns its ID.
func (db *DB) SaveProfessor(ctx context.Context, prof *Professor) error {
	query := `
		INSERT INTO professors (name, department, quality_rating, difficulty_rating, tags, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	var rating, difficulty any
	if prof.Rating != nil {
		rating = *prof.Rating
	}
	if prof.Difficulty != nil {
		difficulty = *prof.Difficulty
	}

	res, err := db.conn.ExecContext(ctx, query,
		prof.Name, prof.Department, rating, difficulty, prof.Tags, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save professor",
			"name", prof.Name,
			"error", err)
		return fmt.Errorf("save professor %s: %w", prof.Name, err)
	}

	if id, err := res.LastInsertId(); err == nil {
		prof.ID = id
	}
	return nil
}

// CountProfessors returns the total number of directory records.
func (db *DB) CountProfessors(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM professors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count professors: %w", err)
	}
	return count, nil
}
