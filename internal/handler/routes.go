package handler

import "net/http"

// Handlers groups every HTTP handler mounted by the server
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Courses  *CourseHandler
	Chapters *ChapterHandler
	Lessons  *LessonHandler
	Uploads  *UploadHandler
	Database *DatabaseHandler

	// LoginLimit wraps the login route; nil leaves it unlimited
	LoginLimit func(http.Handler) http.Handler
}

// Register mounts all routes on mux (Go 1.22+ enhanced patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", Health)

	// Auth routes
	var login http.Handler = http.HandlerFunc(h.Auth.Login)
	if h.LoginLimit != nil {
		login = h.LoginLimit(login)
	}
	mux.Handle("POST /api/auth/login", login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me)

	// User routes
	mux.HandleFunc("GET /api/users", h.Users.ListUsers)
	mux.HandleFunc("POST /api/users", h.Users.CreateUser)
	mux.HandleFunc("GET /api/users/{id}", h.Users.GetUser)
	mux.HandleFunc("PUT /api/users/{id}", h.Users.UpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", h.Users.DeleteUser)

	// Course routes
	mux.HandleFunc("GET /api/courses", h.Courses.ListCourses)
	mux.HandleFunc("POST /api/courses", h.Courses.CreateCourse)
	mux.HandleFunc("GET /api/courses/{id}", h.Courses.GetCourse)
	mux.HandleFunc("PUT /api/courses/{id}", h.Courses.UpdateCourse)
	mux.HandleFunc("DELETE /api/courses/{id}", h.Courses.DeleteCourse)
	mux.HandleFunc("GET /api/courses/{id}/structure", h.Courses.GetStructure)

	// Course-scoped chapter aliases
	mux.HandleFunc("GET /api/courses/{id}/chapters", h.Chapters.ListChapters)
	mux.HandleFunc("POST /api/courses/{id}/chapters", h.Chapters.CreateChapter)

	// Chapter routes
	mux.HandleFunc("GET /api/chapters", h.Chapters.ListChapters)
	mux.HandleFunc("POST /api/chapters", h.Chapters.CreateChapter)
	mux.HandleFunc("PUT /api/chapters/reorder", h.Chapters.ReorderChapters) // Literal segment wins over {id}
	mux.HandleFunc("GET /api/chapters/{id}", h.Chapters.GetChapter)
	mux.HandleFunc("PUT /api/chapters/{id}", h.Chapters.UpdateChapter)
	mux.HandleFunc("DELETE /api/chapters/{id}", h.Chapters.DeleteChapter)

	// Chapter-scoped lesson aliases
	mux.HandleFunc("GET /api/chapters/{id}/lessons", h.Lessons.ListLessons)
	mux.HandleFunc("POST /api/chapters/{id}/lessons", h.Lessons.CreateLesson)

	// Lesson routes
	mux.HandleFunc("GET /api/lessons", h.Lessons.ListLessons)
	mux.HandleFunc("POST /api/lessons", h.Lessons.CreateLesson)
	mux.HandleFunc("PUT /api/lessons/reorder", h.Lessons.ReorderLessons)
	mux.HandleFunc("GET /api/lessons/{id}", h.Lessons.GetLesson)
	mux.HandleFunc("PUT /api/lessons/{id}", h.Lessons.UpdateLesson)
	mux.HandleFunc("DELETE /api/lessons/{id}", h.Lessons.DeleteLesson)

	// Upload routes
	mux.HandleFunc("POST /api/upload/image", h.Uploads.UploadImage)
	mux.HandleFunc("POST /api/upload/images", h.Uploads.UploadImages)
	mux.HandleFunc("DELETE /api/upload/images/{id}", h.Uploads.DeleteImage)

	// Database admin routes
	mux.HandleFunc("POST /api/db/reset", h.Database.Reset)
	mux.HandleFunc("GET /api/db/status", h.Database.Status)
}
