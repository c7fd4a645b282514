package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
)

const (
	defaultFormTitle     = "Untitled Form"
	defaultQuestionTitle = "Untitled Question"
)

// FormService handles form CRUD and publication
type FormService struct {
	forms     repository.FormRepo
	responses repository.ResponseRepo
	cache     cache.AnalyticsCache
	logger    *zap.Logger
}

// NewFormService creates a new form service
func NewFormService(forms repository.FormRepo, responses repository.ResponseRepo, analyticsCache cache.AnalyticsCache, logger *zap.Logger) *FormService {
	return &FormService{
		forms:     forms,
		responses: responses,
		cache:     analyticsCache,
		logger:    logger,
	}
}

// normalizeQuestions fills defaults and assigns ids to new questions.
// Client ids must be unique within the form; answers are matched on them.
func normalizeQuestions(in []model.QuestionRequest) ([]model.Question, error) {
	out := make([]model.Question, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, q := range in {
		if q.ID != "" {
			if seen[q.ID] {
				return nil, newError(ErrValidation, "Duplicate question id")
			}
			seen[q.ID] = true
		}
		n := model.Question{
			ID:       q.ID,
			Title:    q.Title,
			Type:     q.Type,
			Required: q.Required,
			Options:  q.Options,
		}
		if n.ID == "" {
			n.ID = primitive.NewObjectID().Hex()
		}
		if n.Title == "" {
			n.Title = defaultQuestionTitle
		}
		if n.Type == "" {
			n.Type = model.QuestionTypeMultipleChoice
		}
		if n.Options == nil {
			n.Options = []string{}
		}
		out = append(out, n)
	}
	return out, nil
}

// normalizeSettings treats every flag that is not explicitly false as allowed
func normalizeSettings(in *model.SubmissionSettingsRequest, fallback model.SubmissionSettings) model.SubmissionSettings {
	if in == nil {
		return fallback
	}
	s := model.DefaultSubmissionSettings()
	if in.AllowAnonymous != nil {
		s.AllowAnonymous = *in.AllowAnonymous
	}
	if in.AllowNamed != nil {
		s.AllowNamed = *in.AllowNamed
	}
	return s
}

// clientView syncs status flags and never returns nil questions
func clientView(f *model.Form) *model.Form {
	f.SetPublished(f.Published())
	if f.Questions == nil {
		f.Questions = []model.Question{}
	}
	return f
}

// Create stores a new form owned by ownerID
func (s *FormService) Create(ctx context.Context, ownerID string, req model.FormRequest) (*model.Form, error) {
	questions, err := normalizeQuestions(req.Questions)
	if err != nil {
		return nil, err
	}
	form := &model.Form{
		Title:              defaultFormTitle,
		Questions:          questions,
		SubmissionSettings: normalizeSettings(req.SubmissionSettings, model.DefaultSubmissionSettings()),
		CreatedBy:          ownerID,
	}
	if req.Title != nil && *req.Title != "" {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.AIPrompt != nil {
		form.AIPrompt = *req.AIPrompt
	}
	form.SetPublished(req.Status == string(model.FormPublished))

	if err := s.forms.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	s.logger.Info("form created", zap.String("formId", form.ID), zap.String("ownerId", ownerID))
	return clientView(form), nil
}

// ListMine returns the owner's forms, newest first, with response counts
func (s *FormService) ListMine(ctx context.Context, ownerID string) ([]model.FormSummary, error) {
	forms, err := s.forms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}

	ids := make([]string, len(forms))
	for i, f := range forms {
		ids[i] = f.ID
	}
	counts, err := s.responses.CountByForms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}

	out := make([]model.FormSummary, len(forms))
	for i, f := range forms {
		out[i] = model.FormSummary{Form: *clientView(f), ResponseCount: counts[f.ID]}
	}
	return out, nil
}

// ListPublished returns the public listing of published forms
func (s *FormService) ListPublished(ctx context.Context) ([]model.PublishedForm, error) {
	forms, err := s.forms.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published forms: %w", err)
	}

	out := make([]model.PublishedForm, len(forms))
	for i, f := range forms {
		f = clientView(f)
		out[i] = model.PublishedForm{
			ID:                 f.ID,
			Title:              f.Title,
			Description:        f.Description,
			Status:             f.Status,
			SubmissionSettings: f.SubmissionSettings,
			QuestionCount:      len(f.Questions),
		}
	}
	return out, nil
}

func (s *FormService) load(ctx context.Context, id string) (*model.Form, error) {
	if !validObjectID(id) {
		return nil, newError(ErrValidation, "Invalid form id")
	}
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	if form == nil {
		return nil, newError(ErrNotFound, "Form not found")
	}
	return form, nil
}

// Get returns a form. Published forms are public; drafts are only visible to
// their owner. viewerID is empty for anonymous callers.
func (s *FormService) Get(ctx context.Context, id, viewerID string) (*model.Form, error) {
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !form.Published() && (viewerID == "" || viewerID != form.CreatedBy) {
		return nil, newError(ErrForbidden, "Form is not published")
	}
	return clientView(form), nil
}

// Owned returns the form if ownerID owns it
func (s *FormService) Owned(ctx context.Context, id, ownerID string) (*model.Form, error) {
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.CreatedBy != ownerID {
		return nil, newError(ErrForbidden, "Forbidden")
	}
	return form, nil
}

// Update applies a partial update. A status of "published" or "draft" wins
// over isPublished.
func (s *FormService) Update(ctx context.Context, id, ownerID string, req model.FormRequest) (*model.Form, error) {
	form, err := s.Owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	form = clientView(form)

	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.AIPrompt != nil {
		form.AIPrompt = *req.AIPrompt
	}
	form.SubmissionSettings = normalizeSettings(req.SubmissionSettings, form.SubmissionSettings)
	if req.Questions != nil {
		questions, err := normalizeQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
		form.Questions = questions
	}

	switch {
	case req.Status == string(model.FormPublished) || req.Status == string(model.FormDraft):
		form.SetPublished(req.Status == string(model.FormPublished))
	case req.IsPublished != nil:
		form.SetPublished(*req.IsPublished)
	}

	if err := s.forms.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("update form: %w", err)
	}
	s.invalidate(ctx, form.ID)
	return form, nil
}

// Delete removes a form together with its responses
func (s *FormService) Delete(ctx context.Context, id, ownerID string) error {
	form, err := s.Owned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.responses.DeleteByForm(ctx, form.ID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if err := s.forms.Delete(ctx, form.ID); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	s.invalidate(ctx, form.ID)
	s.logger.Info("form deleted", zap.String("formId", form.ID))
	return nil
}

// Publish opens a form for public submissions
func (s *FormService) Publish(ctx context.Context, id, ownerID string) (*model.Form, error) {
	form, err := s.Owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	form = clientView(form)
	form.SetPublished(true)

	if err := s.forms.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("publish form: %w", err)
	}
	s.invalidate(ctx, form.ID)
	return form, nil
}

// invalidate drops the cached snapshot. Failures are logged, not returned.
func (s *FormService) invalidate(ctx context.Context, formID string) {
	if err := s.cache.Invalidate(ctx, formID); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.String("formId", formID), zap.Error(err))
	}
}
