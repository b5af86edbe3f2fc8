package handlers

import (
	"context"
	"net/http"

	"github.com/upb/claims-audit/services/audit"
	"github.com/upb/claims-audit/utils"
	"go.uber.org/zap"
)

// HealthChecker probes storage connectivity
type HealthChecker interface {
	Health(ctx context.Context) audit.HealthReport
}

// WelcomeResponse is the body of GET /
type WelcomeResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	checker        HealthChecker
	metricsEnabled bool
	logger         *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(checker HealthChecker, metricsEnabled bool, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checker:        checker,
		metricsEnabled: metricsEnabled,
		logger:         logger,
	}
}

// HandleHealth handles GET /health.
// Always 200; the storage state is reported in the body.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Health(r.Context())

	if err := utils.WriteOK(w, report); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// HandleRoot handles GET /
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"create_audit": "POST /audit",
		"get_audits":   "GET /audit/{customer_id}",
		"health_check": "GET /health",
		"docs":         "GET /docs",
	}
	if h.metricsEnabled {
		endpoints["metrics"] = "GET /metrics"
	}

	_ = utils.WriteOK(w, WelcomeResponse{
		Message:   "Welcome to Insurance Claims Audit API",
		Endpoints: endpoints,
	})
}
