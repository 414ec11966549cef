package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/httputil"
)

// ChapterHandler handles chapter HTTP requests
type ChapterHandler struct {
	chapterService catalogSvc.ChapterService
	logger         *slog.Logger
}

// NewChapterHandler creates a new chapter handler
func NewChapterHandler(chapterService catalogSvc.ChapterService, logger *slog.Logger) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
		logger:         logger,
	}
}

// ListChapters lists chapters, optionally filtered by course
// GET /api/chapters?courseId=
// GET /api/courses/:id/chapters
func (h *ChapterHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")
	if courseID == "" {
		courseID = r.URL.Query().Get("courseId")
	}

	chapters, err := h.chapterService.ListChapters(r.Context(), courseID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapters)
}

// CreateChapter creates a chapter. Under /courses/:id/chapters the course ID comes from the path.
// POST /api/chapters
// POST /api/courses/:id/chapters
func (h *ChapterHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.CreateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if courseID := r.PathValue("id"); courseID != "" {
		req.CourseID = courseID
	}

	chapter, err := h.chapterService.CreateChapter(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chapter)
}

// GetChapter retrieves a chapter with its lessons
// GET /api/chapters/:id
func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := h.chapterService.GetChapter(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

// UpdateChapter merges the provided fields into a chapter
// PUT /api/chapters/:id
func (h *ChapterHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.UpdateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chapter, err := h.chapterService.UpdateChapter(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

// DeleteChapter deletes a chapter and its lessons
// DELETE /api/chapters/:id
func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.chapterService.DeleteChapter(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !deleted {
		respondNotFound(w, "chapter", id)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "chapter deleted")
}

// ReorderChapters applies new orders to a batch of chapters
// PUT /api/chapters/reorder
func (h *ChapterHandler) ReorderChapters(w http.ResponseWriter, r *http.Request) {
	items, err := decodeReorderPayload(w, r, "chapters")
	if err != nil {
		handleError(w, err)
		return
	}

	chapters, err := h.chapterService.ReorderChapters(r.Context(), items)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapters)
}
