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

// EventRepo handles storage of events
type EventRepo interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// GetActiveByPublicLink returns the active event behind a public link
	GetActiveByPublicLink(ctx context.Context, link string) (*model.Event, error)
	// ListByOwner returns the owner's events, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Event, error)
}

type eventRepo struct {
	collection *mongo.Collection
}

// NewEventRepo creates a MongoDB event repository
func NewEventRepo(db *mongo.Database) EventRepo {
	return &eventRepo{
		collection: db.Collection("events"),
	}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *eventRepo) GetActiveByPublicLink(ctx context.Context, link string) (*model.Event, error) {
	return r.findOne(ctx, bson.M{"publicLink": link, "isActive": true})
}

func (r *eventRepo) findOne(ctx context.Context, filter bson.M) (*model.Event, error) {
	var event model.Event
	err := r.collection.FindOne(ctx, filter).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"createdBy": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []*model.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
