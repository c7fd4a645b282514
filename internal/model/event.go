package model

import "time"

// EventFeedbackForm holds the fixed prompts shown on an event's public page
type EventFeedbackForm struct {
	RatingQuestion string `json:"ratingQuestion" bson:"ratingQuestion"`
	TextQuestion   string `json:"textQuestion" bson:"textQuestion"`
}

// DefaultEventFeedbackForm returns the prompts every event starts with
func DefaultEventFeedbackForm() EventFeedbackForm {
	return EventFeedbackForm{
		RatingQuestion: "How would you rate this event?",
		TextQuestion:   "Any additional feedback? (optional)",
	}
}

// Event is a lightweight rating + comment questionnaire reachable by public link
type Event struct {
	ID           string            `json:"_id" bson:"_id"`
	Title        string            `json:"title" bson:"title"`
	Description  string            `json:"description" bson:"description"`
	CreatedBy    string            `json:"createdBy" bson:"createdBy"`
	IsActive     bool              `json:"isActive" bson:"isActive"`
	PublicLink   string            `json:"publicLink" bson:"publicLink"`
	FeedbackForm EventFeedbackForm `json:"feedbackForm" bson:"feedbackForm"`
	CreatedAt    time.Time         `json:"createdAt" bson:"createdAt"`
}

// EventSummary is an event with its feedback rollup (owner listing)
type EventSummary struct {
	Event
	TotalResponses int     `json:"totalResponses"`
	AverageRating  float64 `json:"averageRating"`
}

// PublicEvent is what anonymous visitors see
type PublicEvent struct {
	ID           string            `json:"_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PublicLink   string            `json:"publicLink"`
	FeedbackForm EventFeedbackForm `json:"feedbackForm"`
}

// EventFeedback is one submission against an event
type EventFeedback struct {
	ID          string    `json:"_id" bson:"_id"`
	EventID     string    `json:"eventId" bson:"eventId"`
	Rating      int       `json:"rating" bson:"rating"`
	Comment     string    `json:"comment" bson:"comment"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}
