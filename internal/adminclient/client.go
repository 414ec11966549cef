// Package adminclient is a Go client for the course panel REST API and a local
// mirror of one course structure that stays consistent with server responses.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coursepanel/internal/domain/models"
	catalog "coursepanel/internal/domain/models/catalog"
	"coursepanel/internal/domain/services"
	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/httputil"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetryInterval = time.Second
	// reorderAttempts is the first try plus two retries
	reorderAttempts = 3
)

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the course panel REST API
type Client struct {
	baseURL       string
	httpClient    *http.Client
	token         string
	retryInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetryInterval sets the fixed wait between reorder retries
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CourseUpdate lists the course fields a client may change. Nil fields are omitted.
// Price is tri-state: leave it zero to keep, httputil.NullFloat() to clear.
type CourseUpdate struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Status      *string                `json:"status,omitempty"`
	Cover       *string                `json:"cover,omitempty"`
	Price       httputil.OptionalFloat `json:"price,omitzero"`
	PricingType *string                `json:"pricingType,omitempty"`
	Content     *string                `json:"content,omitempty"`
}

// Login exchanges credentials for a token and uses it for later calls
func (c *Client) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	var result services.LoginResult
	req := services.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListCourses fetches one page of courses
func (c *Client) ListCourses(ctx context.Context, query catalogSvc.ListCoursesQuery) (*catalog.Page[catalog.Course], error) {
	params := url.Values{}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Status != "" {
		params.Set("status", query.Status)
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}

	path := "/api/courses"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page catalog.Page[catalog.Course]
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateCourse creates a course
func (c *Client) CreateCourse(ctx context.Context, req *catalogSvc.CreateCourseRequest) (*catalog.Course, error) {
	var course catalog.Course
	if err := c.do(ctx, http.MethodPost, "/api/courses", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse changes course fields
func (c *Client) UpdateCourse(ctx context.Context, id string, update *CourseUpdate) (*catalog.Course, error) {
	var course catalog.Course
	if err := c.do(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(id), update, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetStructure fetches a course with its chapters and lessons
func (c *Client) GetStructure(ctx context.Context, courseID string) (*catalog.CourseStructure, error) {
	var structure catalog.CourseStructure
	if err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(courseID)+"/structure", nil, &structure); err != nil {
		return nil, err
	}
	return &structure, nil
}

// CreateChapter creates a chapter in req.CourseID
func (c *Client) CreateChapter(ctx context.Context, req *catalogSvc.CreateChapterRequest) (*catalog.Chapter, error) {
	var chapter catalog.Chapter
	if err := c.do(ctx, http.MethodPost, "/api/chapters", req, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// UpdateChapter changes chapter fields
func (c *Client) UpdateChapter(ctx context.Context, id string, req *catalogSvc.UpdateChapterRequest) (*catalog.Chapter, error) {
	var chapter catalog.Chapter
	if err := c.do(ctx, http.MethodPut, "/api/chapters/"+url.PathEscape(id), req, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// DeleteChapter deletes a chapter and its lessons
func (c *Client) DeleteChapter(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chapters/"+url.PathEscape(id), nil, nil)
}

// ReorderChapters sends new chapter orders, retrying transient failures
func (c *Client) ReorderChapters(ctx context.Context, items []catalog.ReorderItem) ([]catalog.Chapter, error) {
	return retryReorder(ctx, c, func() ([]catalog.Chapter, error) {
		var chapters []catalog.Chapter
		err := c.do(ctx, http.MethodPut, "/api/chapters/reorder", items, &chapters)
		return chapters, err
	})
}

// CreateLesson creates a lesson in req.ChapterID
func (c *Client) CreateLesson(ctx context.Context, req *catalogSvc.CreateLessonRequest) (*catalog.Lesson, error) {
	var lesson catalog.Lesson
	if err := c.do(ctx, http.MethodPost, "/api/lessons", req, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLesson changes lesson fields, including moving it to another chapter
func (c *Client) UpdateLesson(ctx context.Context, id string, req *catalogSvc.UpdateLessonRequest) (*catalog.Lesson, error) {
	var lesson catalog.Lesson
	if err := c.do(ctx, http.MethodPut, "/api/lessons/"+url.PathEscape(id), req, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson deletes a lesson
func (c *Client) DeleteLesson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/lessons/"+url.PathEscape(id), nil, nil)
}

// ReorderLessons sends new lesson orders, retrying transient failures
func (c *Client) ReorderLessons(ctx context.Context, items []catalog.ReorderItem) ([]catalog.Lesson, error) {
	return retryReorder(ctx, c, func() ([]catalog.Lesson, error) {
		var lessons []catalog.Lesson
		err := c.do(ctx, http.MethodPut, "/api/lessons/reorder", items, &lessons)
		return lessons, err
	})
}

// retryReorder runs op with a fixed backoff. Client errors (4xx) are not retried.
func retryReorder[T any](ctx context.Context, c *Client, op func() ([]T, error)) ([]T, error) {
	return backoff.Retry(ctx, func() ([]T, error) {
		result, err := op()
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return result, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryInterval)),
		backoff.WithMaxTries(reorderAttempts),
	)
}

// do sends a JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &errBody) != nil || errBody.Message == "" {
			errBody.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
