package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"zoracoin/pkg/clickhouse"
	"zoracoin/pkg/logger"
)

// Check is one dependency health check
type Check struct {
	Name string
	// Required checks gate readiness; optional ones only degrade /health
	Required bool
	Ping     func(ctx context.Context) error
}

// JournalStats reports the invocation journal buffer
type JournalStats interface {
	GetStats() clickhouse.BatchWriterStats
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      []Check
	journal     JournalStats
	tools       []Tool
	signer      string
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler. journal may be nil.
func New(log *logger.Logger, serviceName, version, signer string, journal JournalStats, checks ...Check) *Handler {
	return &Handler{
		log:         log,
		checks:      checks,
		journal:     journal,
		signer:      signer,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// Tool is a registered tool as listed by /health
type Tool struct {
	Name  string `json:"name"`
	Risk  string `json:"risk"`
	Signs bool   `json:"signs,omitempty"`
}

// WithTools lists the served tools in the detailed health report
func (h *Handler) WithTools(tools []Tool) *Handler {
	h.tools = append([]Tool(nil), tools...)
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Signer    string                     `json:"signer,omitempty"`
	Started   string                     `json:"started"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
	Journal   *JournalHealth             `json:"journal,omitempty"`
	Tools     []Tool                     `json:"tools,omitempty"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// JournalHealth summarizes the journal buffer
type JournalHealth struct {
	Buffered  string `json:"buffered"`
	LastFlush string `json:"last_flush"`
	Running   bool   `json:"running"`
}

// Register mounts the health routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/health/live", h.HandleLiveness)
	mux.HandleFunc("/health/ready", h.HandleReadiness)
}

// HandleLiveness returns 200 OK if service is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness returns 503 unless every required check passes
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]ComponentHealth)
	ready := true
	for _, c := range h.checks {
		if !c.Required {
			continue
		}
		res := h.run(ctx, c)
		checks[c.Name] = res
		if res.Status != "healthy" {
			ready = false
		}
	}

	status := h.status(checks)
	statusCode := http.StatusOK
	if !ready {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}
	writeJSON(w, statusCode, status)
}

// HandleHealth returns detailed health status (includes all checks)
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks := make(map[string]ComponentHealth)
	requiredDown, optionalDown := false, false
	for _, c := range h.checks {
		res := h.run(ctx, c)
		checks[c.Name] = res
		if res.Status == "healthy" {
			continue
		}
		if c.Required {
			requiredDown = true
		} else {
			optionalDown = true
		}
	}

	status := h.status(checks)
	status.Tools = h.tools
	statusCode := http.StatusOK
	switch {
	case requiredDown:
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case optionalDown:
		status.Status = "degraded" // still 200
	}
	writeJSON(w, statusCode, status)
}

func (h *Handler) status(checks map[string]ComponentHealth) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Signer:    h.signer,
		Started:   humanize.Time(h.startTime),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}
	if h.journal != nil {
		s := h.journal.GetStats()
		status.Journal = &JournalHealth{
			Buffered:  humanize.Comma(int64(s.BufferSize)) + " rows",
			LastFlush: humanize.Time(time.Now().Add(-s.LastFlushAge)),
			Running:   s.Running,
		}
	}
	return status
}

func (h *Handler) run(ctx context.Context, c Check) ComponentHealth {
	start := time.Now()
	err := c.Ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Warnw("Health check failed", "component", c.Name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
