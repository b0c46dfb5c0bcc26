package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StaffIDHeader carries the identity of the librarian performing an operation. It is not authentication.
const StaffIDHeader = "X-Staff-ID"

const maxStaffIDLength = 64

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "HTTP requests handled by the circulation API",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "Duration of HTTP requests to the circulation API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)

	return n, err
}

// Unwrap lets http.ResponseController reach the original writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Metrics counts requests per route pattern, so IDs in paths do not create new label values.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// RequestLogger logs every request. 4xx responses are logged as warnings, 5xx as errors.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			level := slog.LevelInfo
			switch {
			case recorder.statusCode >= 500:
				level = slog.LevelError
			case recorder.statusCode >= 400:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", recorder.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", recorder.written),
				slog.String("staff_id", r.Header.Get(StaffIDHeader)),
			)
		})
	}
}

type staffIDKey struct{}

// RequireStaffID rejects requests without a usable X-Staff-ID header and puts the ID into the context.
func RequireStaffID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := strings.TrimSpace(r.Header.Get(StaffIDHeader))

		switch {
		case staffID == "":
			WriteError(w, http.StatusUnauthorized, CodeStaffIDRequired, StaffIDHeader+" header is required")
			return
		case len(staffID) > maxStaffIDLength:
			WriteError(w, http.StatusBadRequest, CodeValidationError, StaffIDHeader+" header is too long")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), staffIDKey{}, staffID)))
	})
}

// StaffIDFrom returns the staff ID put into ctx by RequireStaffID.
func StaffIDFrom(ctx context.Context) string {
	staffID, _ := ctx.Value(staffIDKey{}).(string)
	return staffID
}
