package service

import "time"

// Notification types pushed to owners over the websocket hub
const (
	MsgResponseSubmitted = "response_submitted"
	MsgFeedbackSubmitted = "feedback_submitted"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToForm(formID string, msgType string, payload interface{})
	BroadcastToEvent(eventID string, msgType string, payload interface{})
}

// SubmissionNotice is the payload of a submission notification
type SubmissionNotice struct {
	FormID      string    `json:"formId,omitempty"`
	EventID     string    `json:"eventId,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToForm(string, string, interface{}) {}
func (noopBroadcaster) BroadcastToEvent(string, string, interface{}) {}

func orNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}
