package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "circulation"

// ReadinessChecker reports whether a dependency can serve requests.
type ReadinessChecker interface {
	// CheckReady returns "ok" or "fail" and a message.
	CheckReady(ctx context.Context) (status, message string)
}

// HealthHandler serves the probes and the metrics endpoint.
type HealthHandler struct {
	storage     ReadinessChecker
	version     string
	promHandler http.Handler
}

// NewHealthHandler creates a HealthHandler. A nil storage checker means the in-memory store, which is always ready.
func NewHealthHandler(storage ReadinessChecker, version string) *HealthHandler {
	return &HealthHandler{
		storage:     storage,
		version:     version,
		promHandler: promhttp.Handler(),
	}
}

type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Service   string                 `json:"service"`
	Checks    map[string]checkResult `json:"checks,omitempty"`
}

// Live answers 200 while the process runs.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Service:   serviceName,
	})
}

// Ready answers 503 when the event store cannot be reached.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	storage := checkResult{Status: "ok", Message: "in-memory event store"}
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		storage.Status, storage.Message = h.storage.CheckReady(ctx)
	}

	statusCode := http.StatusOK
	if storage.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, healthResponse{
		Status:    storage.Status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Service:   serviceName,
		Checks:    map[string]checkResult{"event_store": storage},
	})
}

// Metrics serves the Prometheus registry.
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
