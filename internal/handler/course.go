package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/httputil"
)

// CourseHandler handles course HTTP requests
type CourseHandler struct {
	courseService    catalogSvc.CourseService
	structureService catalogSvc.StructureService
	logger           *slog.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(
	courseService catalogSvc.CourseService,
	structureService catalogSvc.StructureService,
	logger *slog.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService:    courseService,
		structureService: structureService,
		logger:           logger,
	}
}

// updateCourseBody is the accepted PUT body. Relation fields such as
// chapters are not listed and therefore ignored.
type updateCourseBody struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *string                `json:"status"`
	Cover       *string                `json:"cover"`
	Price       httputil.OptionalFloat `json:"price"`
	PricingType *string                `json:"pricingType"`
	Content     *string                `json:"content"`
}

// ListCourses returns one page of courses
// GET /api/courses?page&limit&status&search
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.courseService.ListCourses(r.Context(), catalogSvc.ListCoursesQuery{
		Page:   httputil.QueryInt(r, "page", 1),
		Limit:  httputil.QueryInt(r, "limit", 0),
		Status: query.Get("status"),
		Search: query.Get("search"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreateCourse creates a new course
// POST /api/courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.CreateCourseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, course)
}

// GetCourse retrieves a course by ID
// GET /api/courses/:id
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, course)
}

// UpdateCourse merges the provided fields into a course
// PUT /api/courses/:id
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var body updateCourseBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), r.PathValue("id"), &catalogSvc.UpdateCourseRequest{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Cover:       body.Cover,
		Price:       catalogSvc.OptionalPrice{Present: body.Price.Present, Value: body.Price.Value},
		PricingType: body.PricingType,
		Content:     body.Content,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, course)
}

// DeleteCourse deletes a course with its chapters and lessons
// DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.courseService.DeleteCourse(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !deleted {
		respondNotFound(w, "course", id)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "course deleted")
}

// GetStructure returns the course with chapters and lessons nested in display order
// GET /api/courses/:id/structure
func (h *CourseHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	structure, err := h.structureService.GetCourseStructure(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}
