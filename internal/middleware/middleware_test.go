package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubVerifier accepts exactly one token
type stubVerifier struct{ valid string }

func (v stubVerifier) VerifyToken(token string) (*models.SessionClaims, error) {
	if token != v.valid {
		return nil, domain.ErrUnauthorized
	}
	claims := &models.SessionClaims{Username: "admin"}
	claims.Subject = "u1"
	return claims, nil
}

func (stubVerifier) Close() error { return nil }

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(httputil.GetUserID(r)))
	})
}

func TestAuthMiddleware(t *testing.T) {
	public := PublicPaths("POST /api/auth/login")
	handler := AuthMiddleware(stubVerifier{valid: "good"}, public, testLogger())(echoUser())

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", method: http.MethodGet, path: "/api/courses", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "lowercase scheme", method: http.MethodGet, path: "/api/courses", header: "bearer good", wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "missing token", method: http.MethodGet, path: "/api/courses", wantStatus: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/courses", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", method: http.MethodGet, path: "/api/courses", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "login is public", method: http.MethodPost, path: "/api/auth/login", wantStatus: http.StatusOK},
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "uploads are public", method: http.MethodGet, path: "/uploads/a.png", wantStatus: http.StatusOK},
		{name: "preflight passes", method: http.MethodOptions, path: "/api/courses", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	handler := OptionalAuth(stubVerifier{valid: "good"})(echoUser())

	for header, want := range map[string]string{"Bearer good": "u1", "Bearer bad": "", "": ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("header %q: status=%d body=%q, want 200 %q", header, rec.Code, rec.Body.String(), want)
		}
	}
}

// memoryCounter is a fixed-window counter without expiry
type memoryCounter struct {
	counts map[string]int64
	err    error
}

func (c *memoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if c.err != nil {
		return 0, 0, c.err
	}
	c.counts[key]++
	return c.counts[key], window, nil
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	counter := &memoryCounter{counts: make(map[string]int64)}
	handler := RateLimit(counter, "login", 2, time.Minute, testLogger())(ok)

	hit := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := hit("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	rec := hit("10.0.0.1:5678")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on third request, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
	if rec := hit("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("expected other client allowed, got %d", rec.Code)
	}

	// Fails open
	counter.err = errors.New("redis down")
	if rec := hit("10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Errorf("expected fail-open 200, got %d", rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name:     "panic before response",
			handler:  func(http.ResponseWriter, *http.Request) { panic("boom") },
			wantCode: http.StatusInternalServerError,
			wantBody: "internal server error",
		},
		{
			name: "panic after response started",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				panic("late")
			},
			wantCode: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			Recovery(logger)(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
			if !strings.Contains(logs.String(), "handler panic") || !strings.Contains(logs.String(), "path=/api/courses") {
				t.Errorf("expected panic to be logged, got %q", logs.String())
			}
		})
	}
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	aborting := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) })

	defer func() {
		if recovered := recover(); recovered != http.ErrAbortHandler {
			t.Errorf("expected ErrAbortHandler to propagate, got %v", recovered)
		}
	}()
	Recovery(testLogger())(aborting).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("expected panic to propagate")
}
