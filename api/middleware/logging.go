// ABOUTME: Request logging middleware for API endpoints and outbound analytics calls
// ABOUTME: Tags each request with an ID carried in the context and the X-Request-ID header

package middleware

import (
	"context"
	"net/http"
	"time"

	"mai-analytics-api/core/interfaces"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	slowRequest     = 5 * time.Second
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLoggingMiddleware logs the start and end of every request.
// An incoming X-Request-ID is reused when it parses as a UUID.
func RequestLoggingMiddleware(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.New().String()
			}

			w.Header().Set(requestIDHeader, requestID)
			r = r.WithContext(WithRequestID(r.Context(), requestID))

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			logger.Info("Request started", map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  extractIP(r),
				"user_agent": r.UserAgent(),
			})

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.Info("Request completed", map[string]interface{}{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      wrapped.statusCode,
				"duration":    duration.String(),
				"duration_ms": duration.Milliseconds(),
			})

			if duration > slowRequest {
				logger.Warn("Slow request detected", map[string]interface{}{
					"request_id": requestID,
					"path":       r.URL.Path,
					"duration":   duration.String(),
				})
			}

			if wrapped.statusCode >= 500 {
				logger.Error("Request failed with server error", map[string]interface{}{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     wrapped.statusCode,
				})
			}
		})
	}
}

// LoggingRoundTripper logs outgoing requests at debug level. The query
// string is dropped from logged URLs since it carries the analytics token.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Logger    interfaces.Logger
}

// RoundTrip implements http.RoundTripper
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	fields := map[string]interface{}{
		"method": req.Method,
		"url":    redactedURL(req),
	}
	if id := RequestID(req.Context()); id != "" {
		fields["request_id"] = id
		req = req.Clone(req.Context())
		req.Header.Set(requestIDHeader, id)
	}

	start := time.Now()
	resp, err := transport.RoundTrip(req)
	fields["duration"] = time.Since(start).String()

	if err != nil {
		fields["error"] = err.Error()
		t.Logger.Error("Outgoing HTTP request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	t.Logger.Debug("Outgoing HTTP request", fields)
	return resp, nil
}

func redactedURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
