package catalog

import (
	"context"

	"coursepanel/internal/domain/models/catalog"
)

// StructureService assembles the nested course view
type StructureService interface {
	// GetCourseStructure returns the course with chapters and lessons nested in display order
	GetCourseStructure(ctx context.Context, courseID string) (*catalog.CourseStructure, error)
}

// StructureCache stores assembled course structures between mutations
type StructureCache interface {
	// Get returns the cached structure, or ok=false on a miss
	Get(ctx context.Context, courseID string) (structure *catalog.CourseStructure, ok bool, err error)

	// Version returns the invalidation counter of a course. Read it before
	// loading the rows a structure is built from.
	Version(ctx context.Context, courseID string) (int64, error)

	// Set stores a structure only if the course version still equals version,
	// so a build that raced with a mutation is discarded
	Set(ctx context.Context, structure *catalog.CourseStructure, version int64) error

	// Invalidate drops the cached structure of the given courses and bumps their versions
	Invalidate(ctx context.Context, courseIDs ...string) error
}

// ChangePublisher announces catalog mutations to other systems
type ChangePublisher interface {
	// Publish sends one change event
	Publish(ctx context.Context, event catalog.ChangeEvent) error
}
