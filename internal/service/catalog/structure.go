package catalog

import (
	"context"
	"log/slog"

	models "coursepanel/internal/domain/models/catalog"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"
)

// structureService implements the StructureService interface
type structureService struct {
	courseRepo  catalogRepo.CourseRepository
	chapterRepo catalogRepo.ChapterRepository
	lessonRepo  catalogRepo.LessonRepository
	cache       catalogSvc.StructureCache
	logger      *slog.Logger
}

// NewStructureService creates a new structure service
func NewStructureService(
	courseRepo catalogRepo.CourseRepository,
	chapterRepo catalogRepo.ChapterRepository,
	lessonRepo catalogRepo.LessonRepository,
	cache catalogSvc.StructureCache,
	logger *slog.Logger,
) catalogSvc.StructureService {
	return &structureService{
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetCourseStructure builds the nested course view, serving it from cache when possible
func (s *structureService) GetCourseStructure(ctx context.Context, courseID string) (*models.CourseStructure, error) {
	cached, ok, err := s.cache.Get(ctx, courseID)
	if err != nil {
		s.logger.Warn("structure cache read failed", "course_id", courseID, "error", err)
	} else if ok {
		return cached, nil
	}

	// Taken before any row is read; a mutation committed after this point bumps it
	version, versionErr := s.cache.Version(ctx, courseID)
	if versionErr != nil {
		s.logger.Warn("structure cache version read failed", "course_id", courseID, "error", versionErr)
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.chapterRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	chapterIDs := make([]string, len(chapters))
	for i, chapter := range chapters {
		chapterIDs[i] = chapter.ID
	}

	lessons, err := s.lessonRepo.ListByChapters(ctx, chapterIDs)
	if err != nil {
		return nil, err
	}

	structure := assembleStructure(course, chapters, lessons)

	s.logger.Debug("course structure built",
		"course_id", courseID,
		"chapter_count", len(chapters),
		"lesson_count", len(lessons),
	)

	if versionErr == nil {
		if err := s.cache.Set(ctx, structure, version); err != nil {
			s.logger.Warn("structure cache write failed", "course_id", courseID, "error", err)
		}
	}

	return structure, nil
}

// assembleStructure nests lessons under their chapters and sorts both levels by display order.
// Chapters of other courses and lessons without a matching chapter are dropped.
func assembleStructure(course *models.Course, chapters []models.Chapter, lessons []models.Lesson) *models.CourseStructure {
	// First pass: one node per chapter of this course
	nodes := make([]models.ChapterWithLessons, 0, len(chapters))
	index := make(map[string]int, len(chapters))
	for _, chapter := range chapters {
		if chapter.CourseID != course.ID {
			continue
		}
		index[chapter.ID] = len(nodes)
		nodes = append(nodes, models.ChapterWithLessons{
			Chapter: chapter,
			Lessons: []models.Lesson{},
		})
	}

	// Second pass: attach lessons to their chapter
	for _, lesson := range lessons {
		if i, exists := index[lesson.ChapterID]; exists {
			nodes[i].Lessons = append(nodes[i].Lessons, lesson)
		}
	}

	// Third pass: display order at both levels
	for i := range nodes {
		models.SortSiblings(nodes[i].Lessons)
	}
	models.SortSiblings(nodes)

	return &models.CourseStructure{
		Course:   *course,
		Chapters: nodes,
	}
}
