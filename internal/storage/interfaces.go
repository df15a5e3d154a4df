// Package storage provides repository interfaces for data access abstraction.
// These interfaces enable dependency inversion and facilitate testing by
// decoupling the recommendation pipeline from concrete storage implementations.
package storage

import (
	"context"
)

// CatalogRepository defines the interface for course catalog operations.
type CatalogRepository interface {
	GetDepartmentCourses(ctx context.Context, department string) ([]Course, error)
	CourseExists(ctx context.Context, department, code string) (bool, error)
	SaveCourse(ctx context.Context, course *Course) error
	SaveCoursesBatch(ctx context.Context, courses []*Course) error
	CountCourses(ctx context.Context) (int, error)
}

// OfferingsRepository defines the interface for historical offering operations.
type OfferingsRepository interface {
	GetOfferingsForCourse(ctx context.Context, courseCode string) ([]Offering, error)
	SaveOffering(ctx context.Context, offering *Offering) error
	CountOfferings(ctx context.Context) (int, error)
}

// ProfessorDirectory defines the lookup interface the identity resolver needs.
// Both lookups are case-insensitive and return zero or one record
// (first match by primary key on ties).
type ProfessorDirectory interface {
	GetProfessorByName(ctx context.Context, name string) (*Professor, error)
	SearchProfessorBySubstring(ctx context.Context, needle string) (*Professor, error)
}

// HealthRepository defines the interface for health check operations.
type HealthRepository interface {
	// Ping verifies database connection is alive.
	Ping(ctx context.Context) error

	// Ready checks if database is ready to serve queries.
	// Performs more thorough checks than Ping.
	Ready(ctx context.Context) error
}

// Repository is the aggregate interface that combines all repository
// interfaces. The DB type implements this interface, providing a single
// entry point for all data operations.
type Repository interface {
	CatalogRepository
	OfferingsRepository
	ProfessorDirectory
	HealthRepository
	Close() error
}

// Ensure DB implements all repository interfaces at compile time.
var (
	_ CatalogRepository   = (*DB)(nil)
	_ OfferingsRepository = (*DB)(nil)
	_ ProfessorDirectory  = (*DB)(nil)
	_ HealthRepository    = (*DB)(nil)
	_ Repository          = (*DB)(nil)
)
