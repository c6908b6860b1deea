// Package http exposes the REST API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/novametrics/reviewpulse/internal/service"
	"github.com/novametrics/reviewpulse/pkg/httputil"
	"github.com/novametrics/reviewpulse/pkg/pagination"
	"github.com/novametrics/reviewpulse/pkg/validator"
)

// ReviewHandler serves review submission and listing.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

type submitReviewRequest struct {
	Text    string `json:"text" validate:"required"`
	Channel string `json:"channel" validate:"required,oneof=web mobile call_center social"`
}

// Submit handles POST /api/v1/reviews.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Submit(r.Context(), req.Text, req.Channel)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// List handles GET /api/v1/reviews. sentiment and channel query parameters
// narrow the listing; pagination happens after filtering.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := service.ListFilter{
		Sentiment: r.URL.Query().Get("sentiment"),
		Channel:   r.URL.Query().Get("channel"),
	}

	result, err := h.service.List(r.Context(), filter, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
