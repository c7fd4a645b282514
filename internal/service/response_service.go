package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
)

// ResponseService accepts public form submissions
type ResponseService struct {
	forms       repository.FormRepo
	responses   repository.ResponseRepo
	cache       cache.AnalyticsCache
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewResponseService creates a new response service
func NewResponseService(forms repository.FormRepo, responses repository.ResponseRepo, analyticsCache cache.AnalyticsCache, broadcaster Broadcaster, logger *zap.Logger) *ResponseService {
	return &ResponseService{
		forms:       forms,
		responses:   responses,
		cache:       analyticsCache,
		broadcaster: orNoop(broadcaster),
		logger:      logger,
		now:         time.Now,
	}
}

// normalizeIdentity defaults to anonymous; named submissions need a name
func normalizeIdentity(in *model.IdentityRequest) (model.Identity, error) {
	if in == nil {
		return model.Identity{Mode: model.IdentityAnonymous}, nil
	}
	mode := model.IdentityAnonymous
	if in.Mode == string(model.IdentityNamed) {
		mode = model.IdentityNamed
	}
	name := strings.TrimSpace(in.RespondentName)

	if mode == model.IdentityNamed && name == "" {
		return model.Identity{}, newError(ErrValidation, "Respondent name is required for named submissions")
	}
	if utf8.RuneCountInString(name) > model.MaxRespondentNameLen {
		return model.Identity{}, newError(ErrValidation, "Respondent name must be at most %d characters", model.MaxRespondentNameLen)
	}
	if mode == model.IdentityAnonymous {
		name = ""
	}
	return model.Identity{Mode: mode, RespondentName: name}, nil
}

// Submit stores a response against a published form. Answers are stored as
// received; they are interpreted when analytics are computed.
func (s *ResponseService) Submit(ctx context.Context, formID string, req model.SubmitResponseRequest) (*model.Response, error) {
	if !validObjectID(formID) {
		return nil, newError(ErrValidation, "Invalid form id")
	}
	identity, err := normalizeIdentity(req.Identity)
	if err != nil {
		return nil, err
	}

	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	if form == nil || !form.Published() {
		return nil, newError(ErrNotFound, "Form not available")
	}

	switch {
	case identity.Mode == model.IdentityAnonymous && !form.SubmissionSettings.AllowAnonymous:
		return nil, newError(ErrValidation, "Anonymous responses are not allowed for this form")
	case identity.Mode == model.IdentityNamed && !form.SubmissionSettings.AllowNamed:
		return nil, newError(ErrValidation, "Named responses are not allowed for this form")
	}

	answers := req.Answers
	if answers == nil {
		answers = []model.Answer{}
	}
	response := &model.Response{
		FormID:      formID,
		Answers:     answers,
		Identity:    identity,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("store response: %w", err)
	}

	if err := s.cache.Invalidate(ctx, formID); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.String("formId", formID), zap.Error(err))
	}
	s.broadcaster.BroadcastToForm(formID, MsgResponseSubmitted, SubmissionNotice{
		FormID:      formID,
		SubmittedAt: response.SubmittedAt,
	})

	s.logger.Debug("response submitted", zap.String("formId", formID), zap.String("responseId", response.ID))
	return response, nil
}
