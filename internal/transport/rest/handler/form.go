package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"feedbackhub/internal/model"
	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest/middleware"
)

// FormHandler handles form endpoints
type FormHandler struct {
	formSvc      *service.FormService
	analyticsSvc *service.AnalyticsService
	logger       *zap.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService, analyticsSvc *service.AnalyticsService, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		formSvc:      formSvc,
		analyticsSvc: analyticsSvc,
		logger:       logger,
	}
}

// GenerateFromPrompt handles POST /forms/generate-from-prompt
func (h *FormHandler) GenerateFromPrompt(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateFormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draft, err := service.GenerateDraft(req.Prompt)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// Create handles POST /forms
//
//	@Summary	Create a form
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		model.FormRequest	true	"Form"
//	@Success	201		{object}	model.Form
//	@Failure	401		{object}	middleware.ErrorBody
//	@Router		/forms [post]
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.FormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	form, err := h.formSvc.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// List handles GET /forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

// ListPublished handles GET /forms/published
func (h *FormHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

// Get handles GET /forms/{id}
//
//	@Summary	Get a form; drafts are visible to their owner only
//	@Tags		forms
//	@Produce	json
//	@Param		id	path		string	true	"Form id"
//	@Success	200	{object}	model.Form
//	@Failure	403	{object}	middleware.ErrorBody
//	@Failure	404	{object}	middleware.ErrorBody
//	@Router		/forms/{id} [get]
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.Get(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /forms/{id}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.FormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	form, err := h.formSvc.Update(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /forms/{id}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.formSvc.Delete(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context())); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Form deleted"})
}

// Publish handles POST /forms/{id}/publish
func (h *FormHandler) Publish(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.Publish(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PublishResponse{Message: "Published", Form: form})
}

// Analytics handles GET /forms/{id}/analytics
//
//	@Summary	Analytics snapshot of an owned form
//	@Tags		forms
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Form id"
//	@Success	200	{object}	model.AnalyticsSnapshot
//	@Failure	403	{object}	middleware.ErrorBody
//	@Failure	404	{object}	middleware.ErrorBody
//	@Router		/forms/{id}/analytics [get]
func (h *FormHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analyticsSvc.FormAnalytics(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
