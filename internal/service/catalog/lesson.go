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
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// lessonService implements the LessonService interface
type lessonService struct {
	lessonRepo  catalogRepo.LessonRepository
	chapterRepo catalogRepo.ChapterRepository
	txManager   repositories.TransactionManager
	validator   *ResourceValidator
	sanitizer   *HTMLSanitizer
	changes     *ChangeRecorder
	logger      *slog.Logger
}

// NewLessonService creates a new lesson service
func NewLessonService(
	lessonRepo catalogRepo.LessonRepository,
	chapterRepo catalogRepo.ChapterRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	sanitizer *HTMLSanitizer,
	changes *ChangeRecorder,
	logger *slog.Logger,
) catalogSvc.LessonService {
	return &lessonService{
		lessonRepo:  lessonRepo,
		chapterRepo: chapterRepo,
		txManager:   txManager,
		validator:   validator,
		sanitizer:   sanitizer,
		changes:     changes,
		logger:      logger,
	}
}

// CreateLesson creates a lesson. Without an explicit order it goes after the last lesson of the chapter.
func (s *lessonService) CreateLesson(ctx context.Context, req *catalogSvc.CreateLessonRequest) (*models.Lesson, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Type == "" {
		req.Type = models.LessonTypeVideo
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	lesson := &models.Lesson{
		ChapterID: req.ChapterID,
		Title:     req.Title,
		Content:   s.sanitizer.Sanitize(req.Content),
		Duration:  req.Duration,
		Type:      req.Type,
		VideoURL:  req.VideoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var courseID string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		if courseID, err = s.validator.ValidateChapter(txCtx, req.ChapterID); err != nil {
			return err
		}

		if req.Order != nil {
			lesson.Order = *req.Order
		} else if lesson.Order, err = s.nextOrder(txCtx, req.ChapterID); err != nil {
			return err
		}

		return s.lessonRepo.Create(txCtx, lesson)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lesson created",
		"id", lesson.ID,
		"chapter_id", lesson.ChapterID,
		"order", lesson.Order,
	)
	s.changes.Record(ctx, models.EventLessonCreated, courseID, lesson.ID)

	return lesson, nil
}

// GetLesson retrieves a lesson by ID
func (s *lessonService) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	return s.lessonRepo.GetByID(ctx, id)
}

// ListLessons lists the lessons of a chapter, or every lesson when chapterID is empty
func (s *lessonService) ListLessons(ctx context.Context, chapterID string) ([]models.Lesson, error) {
	if chapterID == "" {
		return s.lessonRepo.List(ctx)
	}
	if _, err := s.validator.ValidateChapter(ctx, chapterID); err != nil {
		return nil, err
	}
	return s.lessonRepo.ListByChapter(ctx, chapterID)
}

// UpdateLesson merges the provided fields over the stored lesson.
// Moving a lesson to another chapter without an explicit order appends it there.
func (s *lessonService) UpdateLesson(ctx context.Context, id string, req *catalogSvc.UpdateLessonRequest) (*models.Lesson, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var lesson *models.Lesson
	var courseIDs []string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		if lesson, err = s.lessonRepo.GetByID(txCtx, id); err != nil {
			return err
		}

		oldCourseID, err := s.validator.ValidateChapter(txCtx, lesson.ChapterID)
		if err != nil {
			return err
		}
		courseIDs = []string{oldCourseID}

		if req.ChapterID != nil && *req.ChapterID != lesson.ChapterID {
			newCourseID, err := s.validator.ValidateChapter(txCtx, *req.ChapterID)
			if err != nil {
				return err
			}
			if newCourseID != oldCourseID {
				courseIDs = append(courseIDs, newCourseID)
			}
			lesson.ChapterID = *req.ChapterID
			if req.Order == nil {
				if lesson.Order, err = s.nextOrder(txCtx, lesson.ChapterID); err != nil {
					return err
				}
			}
		}

		if req.Title != nil {
			lesson.Title = *req.Title
		}
		if req.Content != nil {
			lesson.Content = s.sanitizer.Sanitize(*req.Content)
		}
		if req.Duration != nil {
			lesson.Duration = *req.Duration
		}
		if req.Type != nil {
			lesson.Type = *req.Type
		}
		if req.VideoURL != nil {
			lesson.VideoURL = req.VideoURL
		}
		if req.Order != nil {
			lesson.Order = *req.Order
		}
		lesson.UpdatedAt = time.Now()

		return s.lessonRepo.Update(txCtx, lesson)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lesson updated",
		"id", lesson.ID,
		"chapter_id", lesson.ChapterID,
	)
	for _, courseID := range courseIDs {
		s.changes.Record(ctx, models.EventLessonUpdated, courseID, lesson.ID)
	}

	return lesson, nil
}

// DeleteLesson deletes a lesson
func (s *lessonService) DeleteLesson(ctx context.Context, id string) (bool, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.lessonRepo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.logger.Info("lesson deleted",
		"id", id,
		"chapter_id", lesson.ChapterID,
	)
	if courseID, err := s.validator.ValidateChapter(ctx, lesson.ChapterID); err == nil {
		s.changes.Record(ctx, models.EventLessonDeleted, courseID, id)
	}

	return true, nil
}

// ReorderLessons applies new orders atomically
func (s *lessonService) ReorderLessons(ctx context.Context, items []models.ReorderItem) ([]models.Lesson, error) {
	lessons, err := applyReorder[models.Lesson](ctx, s.txManager, items, s.lessonRepo.SetOrder)
	if err != nil {
		return nil, err
	}

	// Resolve each touched chapter's course once
	courseOf := make(map[string]string)
	var courseOrder []string
	idsByCourse := make(map[string][]string)
	for _, lesson := range lessons {
		courseID, ok := courseOf[lesson.ChapterID]
		if !ok {
			courseID, err = s.validator.ValidateChapter(ctx, lesson.ChapterID)
			if err != nil {
				s.logger.Warn("reordered lesson has no chapter", "lesson_id", lesson.ID, "error", err)
				continue
			}
			courseOf[lesson.ChapterID] = courseID
		}
		if _, seen := idsByCourse[courseID]; !seen {
			courseOrder = append(courseOrder, courseID)
		}
		idsByCourse[courseID] = append(idsByCourse[courseID], lesson.ID)
	}

	s.logger.Info("lessons reordered",
		"requested", len(items),
		"updated", len(lessons),
	)
	s.changes.RecordGrouped(ctx, models.EventLessonsReordered, courseOrder, idsByCourse)

	return lessons, nil
}

func (s *lessonService) nextOrder(ctx context.Context, chapterID string) (int, error) {
	highest, ok, err := s.lessonRepo.MaxOrder(ctx, chapterID)
	if err != nil {
		return 0, err
	}
	return NextOrder(highest, ok, config.LessonOrderStep), nil
}

// validateCreateRequest validates a create lesson request
func (s *lessonService) validateCreateRequest(req *catalogSvc.CreateLessonRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ChapterID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Duration, validation.Min(0)),
		validation.Field(&req.Type, validation.In(models.LessonTypes...)),
		validation.Field(&req.VideoURL, validation.NilOrNotEmpty, is.URL),
	)
}

// validateUpdateRequest validates an update lesson request
func (s *lessonService) validateUpdateRequest(req *catalogSvc.UpdateLessonRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ChapterID, validation.NilOrNotEmpty),
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Duration, validation.Min(0)),
		validation.Field(&req.Type,
			validation.NilOrNotEmpty,
			validation.In(models.LessonTypes...),
		),
		validation.Field(&req.VideoURL, is.URL),
	)
}
