package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/httputil"
)

// LessonHandler handles lesson HTTP requests
type LessonHandler struct {
	lessonService catalogSvc.LessonService
	logger        *slog.Logger
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService catalogSvc.LessonService, logger *slog.Logger) *LessonHandler {
	return &LessonHandler{
		lessonService: lessonService,
		logger:        logger,
	}
}

// ListLessons lists lessons, optionally filtered by chapter
// GET /api/lessons?chapterId=
// GET /api/chapters/:id/lessons
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")
	if chapterID == "" {
		chapterID = r.URL.Query().Get("chapterId")
	}

	lessons, err := h.lessonService.ListLessons(r.Context(), chapterID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lessons)
}

// CreateLesson creates a lesson. Under /chapters/:id/lessons the chapter ID comes from the path.
// POST /api/lessons
// POST /api/chapters/:id/lessons
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.CreateLessonRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if chapterID := r.PathValue("id"); chapterID != "" {
		req.ChapterID = chapterID
	}

	lesson, err := h.lessonService.CreateLesson(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, lesson)
}

// GetLesson retrieves a lesson by ID
// GET /api/lessons/:id
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessonService.GetLesson(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lesson)
}

// UpdateLesson merges the provided fields into a lesson
// PUT /api/lessons/:id
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.UpdateLessonRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lesson, err := h.lessonService.UpdateLesson(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lesson)
}

// DeleteLesson deletes a lesson
// DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.lessonService.DeleteLesson(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !deleted {
		respondNotFound(w, "lesson", id)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "lesson deleted")
}

// ReorderLessons applies new orders to a batch of lessons
// PUT /api/lessons/reorder
func (h *LessonHandler) ReorderLessons(w http.ResponseWriter, r *http.Request) {
	items, err := decodeReorderPayload(w, r, "lessons")
	if err != nil {
		handleError(w, err)
		return
	}

	lessons, err := h.lessonService.ReorderLessons(r.Context(), items)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lessons)
}
