package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"feedbackhub/internal/model"
)

// EventFeedbackRepo handles storage of event feedback rows
type EventFeedbackRepo interface {
	Create(ctx context.Context, feedback *model.EventFeedback) error
	// ListByEvent returns an event's feedback, oldest first
	ListByEvent(ctx context.Context, eventID string) ([]*model.EventFeedback, error)
	// ListByEvents groups the feedback of several events by event id
	ListByEvents(ctx context.Context, eventIDs []string) (map[string][]*model.EventFeedback, error)
}

type eventFeedbackRepo struct {
	collection *mongo.Collection
}

// NewEventFeedbackRepo creates a MongoDB event feedback repository
func NewEventFeedbackRepo(db *mongo.Database) EventFeedbackRepo {
	return &eventFeedbackRepo{
		collection: db.Collection("event_feedback"),
	}
}

func (r *eventFeedbackRepo) Create(ctx context.Context, feedback *model.EventFeedback) error {
	if feedback.ID == "" {
		feedback.ID = primitive.NewObjectID().Hex()
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, feedback)
	return err
}

func (r *eventFeedbackRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.EventFeedback, error) {
	return r.find(ctx, bson.M{"eventId": eventID})
}

func (r *eventFeedbackRepo) ListByEvents(ctx context.Context, eventIDs []string) (map[string][]*model.EventFeedback, error) {
	grouped := make(map[string][]*model.EventFeedback, len(eventIDs))
	if len(eventIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.find(ctx, bson.M{"eventId": bson.M{"$in": eventIDs}})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.EventID] = append(grouped[row.EventID], row)
	}
	return grouped, nil
}

func (r *eventFeedbackRepo) find(ctx context.Context, filter bson.M) ([]*model.EventFeedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []*model.EventFeedback{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
