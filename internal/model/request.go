package model

// QuestionRequest is a question as sent by the form builder; missing fields
// are filled in during normalization
type QuestionRequest struct {
	ID       string       `json:"_id"`
	Title    string       `json:"title"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Options  []string     `json:"options"`
}

// SubmissionSettingsRequest leaves unset flags at their default (allowed)
type SubmissionSettingsRequest struct {
	AllowAnonymous *bool `json:"allowAnonymous"`
	AllowNamed     *bool `json:"allowNamed"`
}

// FormRequest is the body of POST /forms and PUT /forms/{id}.
// For updates, nil fields keep their stored value.
type FormRequest struct {
	Title              *string                    `json:"title"`
	Description        *string                    `json:"description"`
	AIPrompt           *string                    `json:"aiPrompt"`
	Questions          []QuestionRequest          `json:"questions"`
	SubmissionSettings *SubmissionSettingsRequest `json:"submissionSettings"`
	Status             string                     `json:"status"`
	IsPublished        *bool                      `json:"isPublished"`
}

// GenerateFormRequest is the body of POST /forms/generate-from-prompt
type GenerateFormRequest struct {
	Prompt string `json:"prompt"`
}

// IdentityRequest is the respondent identity as submitted
type IdentityRequest struct {
	Mode           string `json:"mode"`
	RespondentName string `json:"respondentName"`
}

// SubmitResponseRequest is the body of POST /responses/{formId}
type SubmitResponseRequest struct {
	Answers  []Answer         `json:"answers"`
	Identity *IdentityRequest `json:"identity"`
}

// CreateEventRequest is the body of POST /api/events
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EventFeedbackRequest is the body of POST /api/events/public/{publicLink}/feedback.
// Rating is kept raw so numeric strings can be accepted.
type EventFeedbackRequest struct {
	Rating  any    `json:"rating"`
	Comment string `json:"comment"`
}

// MessageResponse is the generic acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// PublishResponse is returned by POST /forms/{id}/publish
type PublishResponse struct {
	Message string `json:"message"`
	Form    *Form  `json:"form"`
}
