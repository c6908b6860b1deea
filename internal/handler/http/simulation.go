package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/novametrics/reviewpulse/internal/service"
	"github.com/novametrics/reviewpulse/internal/simulator"
	apperrors "github.com/novametrics/reviewpulse/pkg/errors"
	"github.com/novametrics/reviewpulse/pkg/httputil"
)

// SimulationHandler controls the background traffic generator and batch
// submissions.
type SimulationHandler struct {
	runner   *simulator.Runner
	reviews  *service.ReviewService
	defaults simulator.Config
	logger   *slog.Logger
}

// NewSimulationHandler creates a simulation handler. defaults supplies the
// pacing used when a start request leaves interval or duration unset.
func NewSimulationHandler(runner *simulator.Runner, reviews *service.ReviewService, defaults simulator.Config, logger *slog.Logger) *SimulationHandler {
	return &SimulationHandler{runner: runner, reviews: reviews, defaults: defaults, logger: logger}
}

type startSimulationRequest struct {
	IntervalSeconds    int `json:"interval_seconds" validate:"omitempty,gte=1,lte=60"`
	MaxDurationSeconds int `json:"max_duration_seconds" validate:"omitempty,gte=1,lte=3600"`
}

// Start handles POST /api/v1/simulations. The run continues in the
// background after the response; a second start while one is active is a
// conflict.
func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSimulationRequest
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cfg := h.defaults
	if req.IntervalSeconds > 0 {
		cfg.Interval = time.Duration(req.IntervalSeconds) * time.Second
	}
	if req.MaxDurationSeconds > 0 {
		cfg.MaxDuration = time.Duration(req.MaxDurationSeconds) * time.Second
	}

	if err := h.runner.Start(cfg); err != nil {
		if errors.Is(err, simulator.ErrRunActive) {
			httputil.WriteError(w, r, apperrors.Conflict("a simulation run is already active"), h.logger)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: h.runner.Status()})
}

// Status handles GET /api/v1/simulations/current.
func (h *SimulationHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.runner.Status()})
}

// Stop handles DELETE /api/v1/simulations/current.
func (h *SimulationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.Stop(); err != nil {
		if errors.Is(err, simulator.ErrNoActiveRun) {
			httputil.WriteError(w, r, apperrors.NotFound("simulation run", "current"), h.logger)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: h.runner.Status()})
}

type batchRequest struct {
	Count int `json:"count" validate:"omitempty,gte=1,lte=20"`
}

type batchResponse struct {
	Items []service.BatchItem `json:"items"`
	Sent  int                 `json:"sent"`
}

// Batch handles POST /api/v1/simulations/batch: a one-shot burst of sampled
// reviews, synchronous, independent of the background runner.
func (h *SimulationHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items, err := h.reviews.SimulateBatch(r.Context(), req.Count)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: batchResponse{Items: items, Sent: len(items)}})
}
