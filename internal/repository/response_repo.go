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

// ResponseRepo handles storage of form responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) error
	// ListByForm returns a form's responses, oldest first
	ListByForm(ctx context.Context, formID string) ([]*model.Response, error)
	// CountByForms returns the number of responses per form id; forms
	// without responses are absent from the map
	CountByForms(ctx context.Context, formIDs []string) (map[string]int, error)
	DeleteByForm(ctx context.Context, formID string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a MongoDB response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = primitive.NewObjectID().Hex()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, response)
	return err
}

func (r *responseRepo) ListByForm(ctx context.Context, formID string) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) CountByForms(ctx context.Context, formIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(formIDs))
	if len(formIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"formId": bson.M{"$in": formIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$formId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		FormID string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.FormID] = row.Count
	}
	return counts, nil
}

func (r *responseRepo) DeleteByForm(ctx context.Context, formID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	return err
}
