package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"feedbackhub/internal/model"
	"feedbackhub/internal/service"
)

// ResponseHandler accepts public form submissions
type ResponseHandler struct {
	responseSvc *service.ResponseService
	logger      *zap.Logger
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService, logger *zap.Logger) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc, logger: logger}
}

// Submit handles POST /responses/{formId}
//
//	@Summary	Submit a response to a published form
//	@Tags		responses
//	@Accept		json
//	@Produce	json
//	@Param		formId	path		string						true	"Form id"
//	@Param		body	body		model.SubmitResponseRequest	true	"Answers"
//	@Success	201		{object}	model.MessageResponse
//	@Failure	400		{object}	middleware.ErrorBody
//	@Failure	404		{object}	middleware.ErrorBody
//	@Router		/responses/{formId} [post]
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.responseSvc.Submit(r.Context(), mux.Vars(r)["formId"], req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "Response submitted"})
}
