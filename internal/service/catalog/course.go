package catalog

import (
	"context"
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

// courseService implements the CourseService interface
type courseService struct {
	courseRepo  catalogRepo.CourseRepository
	chapterRepo catalogRepo.ChapterRepository
	lessonRepo  catalogRepo.LessonRepository
	txManager   repositories.TransactionManager
	sanitizer   *HTMLSanitizer
	changes     *ChangeRecorder
	logger      *slog.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo catalogRepo.CourseRepository,
	chapterRepo catalogRepo.ChapterRepository,
	lessonRepo catalogRepo.LessonRepository,
	txManager repositories.TransactionManager,
	sanitizer *HTMLSanitizer,
	changes *ChangeRecorder,
	logger *slog.Logger,
) catalogSvc.CourseService {
	return &courseService{
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
		txManager:   txManager,
		sanitizer:   sanitizer,
		changes:     changes,
		logger:      logger,
	}
}

// CreateCourse creates a new course
func (s *courseService) CreateCourse(ctx context.Context, req *catalogSvc.CreateCourseRequest) (*models.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Status == "" {
		req.Status = models.CourseStatusDraft
	}
	if req.PricingType == "" {
		req.PricingType = models.PricingFree
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Cover:       req.Cover,
		Price:       req.Price,
		PricingType: req.PricingType,
		Content:     s.sanitizer.SanitizePtr(req.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		"id", course.ID,
		"title", course.Title,
		"status", course.Status,
	)
	s.changes.Record(ctx, models.EventCourseCreated, course.ID, course.ID)

	return course, nil
}

// GetCourse retrieves a course by ID
func (s *courseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses returns one page of courses. Out-of-range page and limit values are clamped.
func (s *courseService) ListCourses(ctx context.Context, query catalogSvc.ListCoursesQuery) (*models.Page[models.Course], error) {
	page := max(query.Page, 1)
	limit := query.Limit
	if limit < 1 {
		limit = config.DefaultPageSize
	}
	limit = min(limit, config.MaxPageSize)

	courses, total, err := s.courseRepo.List(ctx, models.CourseFilter{
		Status: strings.TrimSpace(query.Status),
		Search: query.Search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &models.Page[models.Course]{
		Data: courses,
		Meta: models.PageMeta{
			CurrentPage: page,
			PageSize:    limit,
			TotalItems:  total,
			TotalPages:  (total + limit - 1) / limit,
		},
	}, nil
}

// UpdateCourse merges the provided fields over the stored course
func (s *courseService) UpdateCourse(ctx context.Context, id string, req *catalogSvc.UpdateCourseRequest) (*models.Course, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.Cover != nil {
		course.Cover = *req.Cover
	}
	if req.Price.Present {
		course.Price = req.Price.Value
	}
	if req.PricingType != nil {
		course.PricingType = *req.PricingType
	}
	if req.Content != nil {
		course.Content = s.sanitizer.SanitizePtr(req.Content)
	}

	// Checked against the merged record so a partial update cannot leave a paid course without price
	if course.PricingType == models.PricingPaid && course.Price == nil {
		return nil, fmt.Errorf("%w: price: required for paid courses", domain.ErrValidation)
	}

	course.UpdatedAt = time.Now()
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course updated",
		"id", course.ID,
		"title", course.Title,
	)
	s.changes.Record(ctx, models.EventCourseUpdated, course.ID, course.ID)

	return course, nil
}

// DeleteCourse deletes a course, its chapters and their lessons in one transaction
func (s *courseService) DeleteCourse(ctx context.Context, id string) (bool, error) {
	var deleted bool
	var chapterCount, lessonCount int

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapters, err := s.chapterRepo.ListByCourse(txCtx, id)
		if err != nil {
			return err
		}
		chapterIDs := make([]string, len(chapters))
		for i, ch := range chapters {
			chapterIDs[i] = ch.ID
		}

		if lessonCount, err = s.lessonRepo.DeleteByChapters(txCtx, chapterIDs); err != nil {
			return err
		}
		if chapterCount, err = s.chapterRepo.DeleteByCourse(txCtx, id); err != nil {
			return err
		}
		deleted, err = s.courseRepo.Delete(txCtx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	s.logger.Info("course deleted",
		"id", id,
		"chapters", chapterCount,
		"lessons", lessonCount,
	)
	s.changes.Record(ctx, models.EventCourseDeleted, id, id)

	return true, nil
}

// validateCreateRequest validates a create course request
func (s *courseService) validateCreateRequest(req *catalogSvc.CreateCourseRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Status, validation.In(models.CourseStatusDraft, models.CourseStatusPublished)),
		validation.Field(&req.PricingType, validation.In(models.PricingFree, models.PricingPaid)),
		validation.Field(&req.Price,
			validation.When(req.PricingType == models.PricingPaid, validation.NotNil),
			validation.Min(0.0),
		),
	)
}

// validateUpdateRequest validates the provided fields of an update course request
func (s *courseService) validateUpdateRequest(req *catalogSvc.UpdateCourseRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Status,
			validation.NilOrNotEmpty,
			validation.In(models.CourseStatusDraft, models.CourseStatusPublished),
		),
		validation.Field(&req.PricingType,
			validation.NilOrNotEmpty,
			validation.In(models.PricingFree, models.PricingPaid),
		),
	)
	if err != nil {
		return err
	}

	if req.Price.Present && req.Price.Value != nil && *req.Price.Value < 0 {
		return fmt.Errorf("price: must be no less than 0")
	}
	return nil
}
