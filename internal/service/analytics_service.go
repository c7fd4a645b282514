package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"feedbackhub/internal/analytics"
	"feedbackhub/internal/cache"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
)

// AnalyticsService serves form analytics snapshots to form owners
type AnalyticsService struct {
	forms     repository.FormRepo
	responses repository.ResponseRepo
	cache     cache.AnalyticsCache
	logger    *zap.Logger
	group     singleflight.Group
	now       func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(forms repository.FormRepo, responses repository.ResponseRepo, analyticsCache cache.AnalyticsCache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		forms:     forms,
		responses: responses,
		cache:     analyticsCache,
		logger:    logger,
		now:       time.Now,
	}
}

// FormAnalytics returns the snapshot of a form owned by userID.
// The form and the cached snapshot are fetched concurrently; on a cache miss
// the snapshot is recomputed from the stored responses, with concurrent
// misses for the same form and cache generation sharing one computation.
func (s *AnalyticsService) FormAnalytics(ctx context.Context, formID, userID string) (*model.AnalyticsSnapshot, error) {
	if !validObjectID(formID) {
		return nil, newError(ErrValidation, "Invalid form id")
	}

	var (
		form       *model.Form
		cached     *model.AnalyticsSnapshot
		generation int64
		cacheOK    bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.forms.GetByID(gctx, formID)
		if err != nil {
			return fmt.Errorf("get form: %w", err)
		}
		form = f
		return nil
	})
	g.Go(func() error {
		snap, gen, err := s.cache.Get(gctx, formID)
		if err != nil {
			s.logger.Warn("analytics cache read failed", zap.String("formId", formID), zap.Error(err))
			return nil
		}
		cached, generation, cacheOK = snap, gen, true
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if form == nil {
		return nil, newError(ErrNotFound, "Form not found")
	}
	if form.CreatedBy != userID {
		return nil, newError(ErrForbidden, "Forbidden")
	}
	if cached != nil {
		return cached, nil
	}

	// detached from the caller; concurrent waiters share the result
	computeCtx := context.WithoutCancel(ctx)
	key := fmt.Sprintf("%s:%d", formID, generation)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.compute(computeCtx, form, generation, cacheOK)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.AnalyticsSnapshot), nil
}

// compute builds a snapshot from the stored responses. It is cached under
// generation, read before the responses were listed, and only when that read
// succeeded; a submission in between moves readers on to the next generation.
func (s *AnalyticsService) compute(ctx context.Context, form *model.Form, generation int64, store bool) (*model.AnalyticsSnapshot, error) {
	responses, err := s.responses.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	snapshot, err := analytics.Compute(form, analytics.StampUndated(responses, s.now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("compute analytics: %w", err)
	}

	if store {
		if err := s.cache.Set(ctx, snapshot, generation); err != nil {
			s.logger.Warn("analytics cache write failed", zap.String("formId", form.ID), zap.Error(err))
		}
	}
	s.logger.Debug("analytics computed",
		zap.String("formId", form.ID),
		zap.Int64("generation", generation),
		zap.Int("responses", snapshot.TotalResponses))
	return snapshot, nil
}
