package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "kulutus/internal/log"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(p)
}

// withObservability tags every request with an id, logs start/completion
// and records prometheus metrics. Health and metrics probes stay quiet.
func withObservability(logger *applog.Logger, next http.Handler) http.Handler {
	httpLog := logger.WithComponent(applog.ComponentHTTP)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		reqLog := httpLog.WithRequestID(requestID)
		ctx := applog.IntoContext(r.Context(), reqLog)
		r = r.WithContext(ctx)

		quiet := r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
		if !quiet {
			reqLog.InfoContext(ctx, "Request started",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		dur := time.Since(start)
		observeHTTPRequest(r, rw.statusCode, dur)
		if !quiet {
			reqLog.InfoContext(ctx, "Request completed",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldStatusCode, rw.statusCode,
				applog.FieldDuration, dur.Milliseconds())
		}
	})
}
