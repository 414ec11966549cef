package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursepanel/internal/config"
	"coursepanel/internal/domain"
	models "coursepanel/internal/domain/models/catalog"
	"coursepanel/internal/domain/repositories"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// chapterService implements the ChapterService interface
type chapterService struct {
	chapterRepo catalogRepo.ChapterRepository
	lessonRepo  catalogRepo.LessonRepository
	txManager   repositories.TransactionManager
	validator   *ResourceValidator
	changes     *ChangeRecorder
	logger      *slog.Logger
}

// NewChapterService creates a new chapter service
func NewChapterService(
	chapterRepo catalogRepo.ChapterRepository,
	lessonRepo catalogRepo.LessonRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	changes *ChangeRecorder,
	logger *slog.Logger,
) catalogSvc.ChapterService {
	return &chapterService{
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
		txManager:   txManager,
		validator:   validator,
		changes:     changes,
		logger:      logger,
	}
}

// CreateChapter creates a chapter. Without an explicit order it goes after the last chapter of the course.
func (s *chapterService) CreateChapter(ctx context.Context, req *catalogSvc.CreateChapterRequest) (*models.Chapter, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	chapter := &models.Chapter{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Default order and insert share a transaction; MaxOrder locks the course row until commit
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.validator.ValidateCourse(txCtx, req.CourseID); err != nil {
			return err
		}

		if req.Order != nil {
			chapter.Order = *req.Order
		} else {
			highest, ok, err := s.chapterRepo.MaxOrder(txCtx, req.CourseID)
			if err != nil {
				return err
			}
			chapter.Order = NextOrder(highest, ok, config.ChapterOrderStep)
		}

		return s.chapterRepo.Create(txCtx, chapter)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chapter created",
		"id", chapter.ID,
		"course_id", chapter.CourseID,
		"order", chapter.Order,
	)
	s.changes.Record(ctx, models.EventChapterCreated, chapter.CourseID, chapter.ID)

	return chapter, nil
}

// GetChapter retrieves a chapter with its lessons in display order
func (s *chapterService) GetChapter(ctx context.Context, id string) (*models.ChapterWithLessons, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessonRepo.ListByChapter(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ChapterWithLessons{Chapter: *chapter, Lessons: lessons}, nil
}

// ListChapters lists the chapters of a course, or every chapter when courseID is empty
func (s *chapterService) ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	if courseID == "" {
		return s.chapterRepo.List(ctx)
	}
	if err := s.validator.ValidateCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.chapterRepo.ListByCourse(ctx, courseID)
}

// UpdateChapter merges the provided fields over the stored chapter
func (s *chapterService) UpdateChapter(ctx context.Context, id string, req *catalogSvc.UpdateChapterRequest) (*models.Chapter, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.Description != nil {
		chapter.Description = *req.Description
	}
	if req.Order != nil {
		chapter.Order = *req.Order
	}
	chapter.UpdatedAt = time.Now()

	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}

	s.logger.Info("chapter updated",
		"id", chapter.ID,
		"course_id", chapter.CourseID,
	)
	s.changes.Record(ctx, models.EventChapterUpdated, chapter.CourseID, chapter.ID)

	return chapter, nil
}

// DeleteChapter deletes a chapter and its lessons in one transaction
func (s *chapterService) DeleteChapter(ctx context.Context, id string) (bool, error) {
	var courseID string
	var lessonCount int

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapter, err := s.chapterRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		courseID = chapter.CourseID

		if lessonCount, err = s.lessonRepo.DeleteByChapters(txCtx, []string{id}); err != nil {
			return err
		}
		_, err = s.chapterRepo.Delete(txCtx, id)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.logger.Info("chapter deleted",
		"id", id,
		"course_id", courseID,
		"lessons", lessonCount,
	)
	s.changes.Record(ctx, models.EventChapterDeleted, courseID, id)

	return true, nil
}

// ReorderChapters applies new orders atomically
func (s *chapterService) ReorderChapters(ctx context.Context, items []models.ReorderItem) ([]models.Chapter, error) {
	chapters, err := applyReorder[models.Chapter](ctx, s.txManager, items, s.chapterRepo.SetOrder)
	if err != nil {
		return nil, err
	}

	var courseOrder []string
	idsByCourse := make(map[string][]string)
	for _, ch := range chapters {
		if _, seen := idsByCourse[ch.CourseID]; !seen {
			courseOrder = append(courseOrder, ch.CourseID)
		}
		idsByCourse[ch.CourseID] = append(idsByCourse[ch.CourseID], ch.ID)
	}

	s.logger.Info("chapters reordered",
		"requested", len(items),
		"updated", len(chapters),
	)
	s.changes.RecordGrouped(ctx, models.EventChaptersReordered, courseOrder, idsByCourse)

	return chapters, nil
}

// validateCreateRequest validates a create chapter request
func (s *chapterService) validateCreateRequest(req *catalogSvc.CreateChapterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CourseID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
}

// validateUpdateRequest validates an update chapter request
func (s *chapterService) validateUpdateRequest(req *catalogSvc.UpdateChapterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
}
