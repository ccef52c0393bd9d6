package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Checker verifies that a backing service is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a plain function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

type Handler struct {
	checks  map[string]Checker
	timeout time.Duration
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, timeout: 3 * time.Second, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

// Result is the outcome of one named check.
type Result struct {
	Status string `json:"status"`
}

// Report maps check names to their results.
type Report map[string]Result

// Run executes every check and reports whether all passed.
func (h *Handler) Run(ctx context.Context) (Report, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := make(Report, len(h.checks))
	healthy := true
	for name, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.Error("health check failed", "check", name, "error", err)
			report[name] = Result{Status: StatusError}
			healthy = false
			continue
		}
		report[name] = Result{Status: StatusOK}
	}
	return report, healthy
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	report, healthy := h.Run(r.Context())

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
