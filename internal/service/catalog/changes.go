package catalog

import (
	"context"
	"log/slog"
	"time"

	models "coursepanel/internal/domain/models/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"
)

// publishTimeout bounds how long a mutation waits on the event broker
const publishTimeout = 2 * time.Second

// ChangeRecorder runs the side effects of a committed catalog mutation:
// it drops the cached structure of the affected course and publishes a change event.
// Both are best-effort; failures are logged and never fail the mutation.
type ChangeRecorder struct {
	cache     catalogSvc.StructureCache
	publisher catalogSvc.ChangePublisher
	logger    *slog.Logger
}

// NewChangeRecorder creates a change recorder
func NewChangeRecorder(
	cache catalogSvc.StructureCache,
	publisher catalogSvc.ChangePublisher,
	logger *slog.Logger,
) *ChangeRecorder {
	return &ChangeRecorder{
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Record handles one mutation affecting a single course
func (r *ChangeRecorder) Record(ctx context.Context, eventType, courseID string, ids ...string) {
	if err := r.cache.Invalidate(ctx, courseID); err != nil {
		r.logger.Warn("structure cache invalidation failed",
			"course_id", courseID,
			"error", err,
		)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := models.ChangeEvent{
		Type:     eventType,
		CourseID: courseID,
		IDs:      ids,
		At:       time.Now().UTC(),
	}
	if err := r.publisher.Publish(pubCtx, event); err != nil {
		r.logger.Warn("change event publish failed",
			"type", eventType,
			"course_id", courseID,
			"error", err,
		)
	}
}

// RecordGrouped handles a mutation spanning several courses, one event per course.
// idsByCourse preserves the order in which courses were first seen via courseOrder.
func (r *ChangeRecorder) RecordGrouped(ctx context.Context, eventType string, courseOrder []string, idsByCourse map[string][]string) {
	for _, courseID := range courseOrder {
		r.Record(ctx, eventType, courseID, idsByCourse[courseID]...)
	}
}
