package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

const readyTimeout = 5 * time.Second

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Body(categoriesResponse{Categories: core.Categories()}).
		Indent().
		Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks that the store answers within readyTimeout.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]string{"store": "ok"}
	status, code := "ready", http.StatusOK

	if s.store == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.store.Ping(ctx); err != nil {
		log.FromContextOr(ctx, s.logger).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	NewJSONResponse().Status(code).Body(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.trace.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	metric(w, "http_requests_total", "counter", "Total number of HTTP requests", tm.TotalRequests)
	metric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", tm.ServerErrors)
	metric(w, "http_last_request_duration_microseconds", "gauge", "Duration of the most recent request", tm.LastDurationUS)
	if s.limiter != nil {
		metric(w, "rate_limit_rejected_total", "counter", "Requests refused by the rate limiter", s.limiter.Rejected())
		metric(w, "rate_limit_active_clients", "gauge", "Clients tracked by the rate limiter", int64(s.limiter.ActiveClients()))
	}
	metric(w, "uptime_seconds", "gauge", "Process uptime in seconds", int64(time.Since(s.started).Seconds()))
}

func metric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", name, help, name, kind, name, value)
}
