package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"feedbackhub/internal/model"
	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest/middleware"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventSvc *service.EventService
	logger   *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventSvc *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, logger: logger}
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventSvc.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// ListMine handles GET /api/events/mine
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventSvc.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetPublic handles GET /api/events/public/{publicLink}
func (h *EventHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventSvc.GetPublic(r.Context(), mux.Vars(r)["publicLink"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// SubmitFeedback handles POST /api/events/public/{publicLink}/feedback
//
//	@Summary	Rate an active event
//	@Tags		events
//	@Accept		json
//	@Produce	json
//	@Param		publicLink	path		string						true	"Public link"
//	@Param		body		body		model.EventFeedbackRequest	true	"Rating and comment"
//	@Success	201			{object}	model.MessageResponse
//	@Failure	400			{object}	middleware.ErrorBody
//	@Failure	404			{object}	middleware.ErrorBody
//	@Router		/api/events/public/{publicLink}/feedback [post]
func (h *EventHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.EventFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.eventSvc.SubmitFeedback(r.Context(), mux.Vars(r)["publicLink"], req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "Feedback submitted"})
}

// Analytics handles GET /api/events/{id}/analytics
func (h *EventHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.eventSvc.Analytics(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
