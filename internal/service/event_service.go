package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedbackhub/internal/analytics"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
)

const (
	publicLinkLen      = 8
	publicLinkAttempts = 5
)

// EventService handles events and their public feedback
type EventService struct {
	events      repository.EventRepo
	feedback    repository.EventFeedbackRepo
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
	newLink     func() string
}

// NewEventService creates a new event service
func NewEventService(events repository.EventRepo, feedback repository.EventFeedbackRepo, broadcaster Broadcaster, logger *zap.Logger) *EventService {
	return &EventService{
		events:      events,
		feedback:    feedback,
		broadcaster: orNoop(broadcaster),
		logger:      logger,
		now:         time.Now,
		newLink:     randomPublicLink,
	}
}

func randomPublicLink() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:publicLinkLen]
}

// Create stores a new active event with a fresh public link
func (s *EventService) Create(ctx context.Context, ownerID string, req model.CreateEventRequest) (*model.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, newError(ErrValidation, "Event title is required")
	}

	event := &model.Event{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		CreatedBy:    ownerID,
		IsActive:     true,
		FeedbackForm: model.DefaultEventFeedbackForm(),
		CreatedAt:    s.now().UTC(),
	}

	var err error
	for attempt := 0; attempt < publicLinkAttempts; attempt++ {
		event.PublicLink = s.newLink()
		err = s.events.Create(ctx, event)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		event.ID = ""
	}
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created", zap.String("eventId", event.ID), zap.String("publicLink", event.PublicLink))
	return event, nil
}

// ListMine returns the owner's events, newest first, with feedback rollups
func (s *EventService) ListMine(ctx context.Context, ownerID string) ([]model.EventSummary, error) {
	events, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	grouped, err := s.feedback.ListByEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	out := make([]model.EventSummary, len(events))
	for i, e := range events {
		rows := grouped[e.ID]
		out[i] = model.EventSummary{
			Event:          *e,
			TotalResponses: len(rows),
			AverageRating:  analytics.EventAverage(rows),
		}
	}
	return out, nil
}

func (s *EventService) activeByLink(ctx context.Context, link string) (*model.Event, error) {
	event, err := s.events.GetActiveByPublicLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, newError(ErrNotFound, "Event not found")
	}
	return event, nil
}

// GetPublic returns the public view of an active event
func (s *EventService) GetPublic(ctx context.Context, link string) (*model.PublicEvent, error) {
	event, err := s.activeByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return &model.PublicEvent{
		ID:           event.ID,
		Title:        event.Title,
		Description:  event.Description,
		PublicLink:   event.PublicLink,
		FeedbackForm: event.FeedbackForm,
	}, nil
}

// SubmitFeedback stores one rating and optional comment for an active event
func (s *EventService) SubmitFeedback(ctx context.Context, link string, req model.EventFeedbackRequest) (*model.EventFeedback, error) {
	rating, ok := analytics.ParseRating(req.Rating)
	if !ok {
		return nil, newError(ErrValidation, "Rating must be an integer from 1 to 5")
	}

	event, err := s.activeByLink(ctx, link)
	if err != nil {
		return nil, err
	}

	feedback := &model.EventFeedback{
		EventID:     event.ID,
		Rating:      rating,
		Comment:     strings.TrimSpace(req.Comment),
		SubmittedAt: s.now().UTC(),
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	s.broadcaster.BroadcastToEvent(event.ID, MsgFeedbackSubmitted, SubmissionNotice{
		EventID:     event.ID,
		SubmittedAt: feedback.SubmittedAt,
	})
	return feedback, nil
}

// Owned returns the event if ownerID owns it
func (s *EventService) Owned(ctx context.Context, id, ownerID string) (*model.Event, error) {
	if !validObjectID(id) {
		return nil, newError(ErrValidation, "Invalid event id")
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, newError(ErrNotFound, "Event not found")
	}
	if event.CreatedBy != ownerID {
		return nil, newError(ErrForbidden, "Forbidden")
	}
	return event, nil
}

// Analytics returns the feedback rollup of an event owned by ownerID
func (s *EventService) Analytics(ctx context.Context, id, ownerID string) (*model.EventAnalytics, error) {
	event, err := s.Owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.feedback.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	result, err := analytics.ComputeEvent(event, rows)
	if err != nil {
		return nil, fmt.Errorf("compute event analytics: %w", err)
	}
	return result, nil
}
