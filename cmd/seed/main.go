package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"feedbackhub/internal/app"
	"feedbackhub/internal/config"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
	"feedbackhub/internal/service"
)

const demoPassword = "demo1234"

func main() {
	cfg, err := config.Load(os.Getenv("FEEDBACKHUB_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGO_URI is required for seeding")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := app.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	if err := seed(ctx, app.MongoStores(db), time.Now().UTC()); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

// seed creates the demo user, a published form with a week of responses and
// an event with feedback. It does nothing if the demo user already exists.
func seed(ctx context.Context, stores app.Stores, now time.Time) error {
	existing, err := stores.Users.GetByID(ctx, service.DemoUserID)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Println("Demo data already present, nothing to do")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &model.User{
		ID:           service.DemoUserID,
		Name:         "Demo",
		Email:        "demo@feedbackhub.local",
		PasswordHash: string(hash),
		AuthProvider: model.AuthProviderLocal,
	}
	if err := stores.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	form := &model.Form{
		Title:       "Smartphone Launch Feedback",
		Description: "Tell us how the new device is working for you.",
		Questions: []model.Question{
			{ID: primitive.NewObjectID().Hex(), Title: "How satisfied are you overall?", Type: model.QuestionTypeRating, Required: true, Options: []string{}},
			{ID: primitive.NewObjectID().Hex(), Title: "Would you recommend it to a friend?", Type: model.QuestionTypeYesNo, Required: true, Options: []string{}},
			{ID: primitive.NewObjectID().Hex(), Title: "Which model did you buy?", Type: model.QuestionTypeMultipleChoice, Required: true,
				Options: []string{"Standard Model", "Pro / Plus Model", "Ultra / Max Model"}},
			{ID: primitive.NewObjectID().Hex(), Title: "What should we improve?", Type: model.QuestionTypeParagraph, Options: []string{}},
		},
		SubmissionSettings: model.DefaultSubmissionSettings(),
		CreatedBy:          service.DemoUserID,
	}
	form.SetPublished(true)
	if err := stores.Forms.Create(ctx, form); err != nil {
		return fmt.Errorf("create form: %w", err)
	}

	comments := []string{
		"Great battery and a clear, helpful display",
		"Camera is excellent but the price is too high",
		"Setup was confusing and slow",
		"Love the design, very fast",
		"Needs better battery life and more storage",
		"Amazing camera, easy to use",
		"",
	}
	models := form.Questions[2].Options
	for i := 0; i < 14; i++ {
		rating := 1 + (i*3)%5
		yesNo := "Yes"
		if rating < 3 {
			yesNo = "No"
		}
		resp := &model.Response{
			FormID: form.ID,
			Answers: []model.Answer{
				{QuestionID: form.Questions[0].ID, Value: rating},
				{QuestionID: form.Questions[1].ID, Value: yesNo},
				{QuestionID: form.Questions[2].ID, Value: models[i%len(models)]},
				{QuestionID: form.Questions[3].ID, Value: comments[i%len(comments)]},
			},
			Identity:    model.Identity{Mode: model.IdentityAnonymous},
			SubmittedAt: now.Add(-time.Duration(i%7) * 24 * time.Hour),
		}
		if err := stores.Responses.Create(ctx, resp); err != nil {
			return fmt.Errorf("create response: %w", err)
		}
	}

	event := &model.Event{
		Title:        "Launch Day Meetup",
		Description:  "In-store launch event",
		CreatedBy:    service.DemoUserID,
		IsActive:     true,
		PublicLink:   "demo0001",
		FeedbackForm: model.DefaultEventFeedbackForm(),
		CreatedAt:    now,
	}
	if err := stores.Events.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	for i, rating := range []int{5, 4, 4, 3, 5} {
		fb := &model.EventFeedback{
			EventID:     event.ID,
			Rating:      rating,
			Comment:     comments[i],
			SubmittedAt: now.Add(time.Duration(i) * time.Minute),
		}
		if err := stores.EventFeedback.Create(ctx, fb); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
	}

	fmt.Printf("Seeded demo user %s (password %q)\n", user.Email, demoPassword)
	fmt.Printf("  form  %s (%d responses)\n", form.ID, 14)
	fmt.Printf("  event %s (public link %s)\n", event.ID, event.PublicLink)
	return nil
}
