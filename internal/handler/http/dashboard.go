package http

import (
	"log/slog"
	"net/http"

	"github.com/novametrics/reviewpulse/internal/service"
	"github.com/novametrics/reviewpulse/pkg/httputil"
)

// DashboardHandler serves the aggregate dashboard view.
type DashboardHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(svc *service.ReviewService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: svc, logger: logger}
}

// Overview handles GET /api/v1/dashboard/overview. Aggregates are recomputed
// from the full review set on every call.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Overview(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
