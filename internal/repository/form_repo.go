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

// FormRepo handles storage of forms
type FormRepo interface {
	Create(ctx context.Context, form *model.Form) error
	GetByID(ctx context.Context, id string) (*model.Form, error)
	// ListByOwner returns the owner's forms, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error)
	// ListPublished returns all published forms, newest first
	ListPublished(ctx context.Context) ([]*model.Form, error)
	Update(ctx context.Context, form *model.Form) error
	Delete(ctx context.Context, id string) error
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a MongoDB form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

func (r *formRepo) Create(ctx context.Context, form *model.Form) error {
	if form.ID == "" {
		form.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, form)
	return err
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	var form model.Form
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
	return r.find(ctx, bson.M{"createdBy": ownerID})
}

func (r *formRepo) ListPublished(ctx context.Context) ([]*model.Form, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"status": model.FormPublished},
		bson.M{"isPublished": true},
	}})
}

func (r *formRepo) find(ctx context.Context, filter bson.M) ([]*model.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []*model.Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepo) Update(ctx context.Context, form *model.Form) error {
	form.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": form.ID}, form)
	return err
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
