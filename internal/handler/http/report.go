package http

import (
	"log/slog"
	"net/http"

	"github.com/novametrics/reviewpulse/internal/service"
	"github.com/novametrics/reviewpulse/pkg/httputil"
	"github.com/novametrics/reviewpulse/pkg/validator"
)

// ReportHandler serves report synthesis and the review assistant.
type ReportHandler struct {
	service *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logger: logger}
}

type synthesizeRequest struct {
	Recipient string `json:"recipient" validate:"omitempty,email"`
}

type reportResponse struct {
	Text          string `json:"text"`
	ReviewCount   int    `json:"review_count"`
	Delivered     bool   `json:"delivered"`
	DeliveryError string `json:"delivery_error,omitempty"`
}

// Synthesize handles POST /api/v1/reports. A failed delivery still returns
// the synthesized text, with the delivery error noted in the payload.
func (h *ReportHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	report, err := h.service.Synthesize(r.Context(), req.Recipient)
	if err != nil {
		if report == nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reportResponse{
			Text:          report.Text,
			ReviewCount:   report.ReviewCount,
			Delivered:     false,
			DeliveryError: err.Error(),
		}})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reportResponse{
		Text:        report.Text,
		ReviewCount: report.ReviewCount,
		Delivered:   report.Delivered,
	}})
}

type assistantRequest struct {
	Channel  string `json:"channel" validate:"required,oneof=web mobile call_center social"`
	Question string `json:"question" validate:"required"`
}

// Answer handles POST /api/v1/assistant.
func (h *ReportHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	answer, err := h.service.Answer(r.Context(), req.Channel, req.Question)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"answer": answer}})
}
