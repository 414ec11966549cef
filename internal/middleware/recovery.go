package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"coursepanel/internal/httputil"
)

// startedWriter notes whether a handler already began its response
type startedWriter struct {
	http.ResponseWriter
	started bool
}

func (w *startedWriter) WriteHeader(status int) {
	w.started = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *startedWriter) Write(b []byte) (int, error) {
	w.started = true
	return w.ResponseWriter.Write(b)
}

// Recovery turns a handler panic into a 500 and logs it with the caller and stack.
// http.ErrAbortHandler is re-raised so net/http can abort the connection quietly.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &startedWriter{ResponseWriter: w}

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				logger.Error("handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", httputil.GetUserID(r),
					"panic", recovered,
					"response_started", sw.started,
					"stack", string(debug.Stack()),
				)

				// Headers already on the wire cannot be replaced
				if !sw.started {
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
