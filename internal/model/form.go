package model

import "time"

// FormStatus gates public access to a form
type FormStatus string

const (
	FormDraft     FormStatus = "draft"
	FormPublished FormStatus = "published"
)

// SubmissionSettings controls which identity modes a form accepts
type SubmissionSettings struct {
	AllowAnonymous bool `json:"allowAnonymous" bson:"allowAnonymous"`
	AllowNamed     bool `json:"allowNamed" bson:"allowNamed"`
}

// DefaultSubmissionSettings accepts both anonymous and named responses
func DefaultSubmissionSettings() SubmissionSettings {
	return SubmissionSettings{AllowAnonymous: true, AllowNamed: true}
}

// Form is a questionnaire owned by a creator
type Form struct {
	ID                 string             `json:"_id" bson:"_id"`
	Title              string             `json:"title" bson:"title"`
	Description        string             `json:"description" bson:"description"`
	AIPrompt           string             `json:"aiPrompt" bson:"aiPrompt"`
	Questions          []Question         `json:"questions" bson:"questions"`
	SubmissionSettings SubmissionSettings `json:"submissionSettings" bson:"submissionSettings"`
	Status             FormStatus         `json:"status" bson:"status"`
	IsPublished        bool               `json:"isPublished" bson:"isPublished"`
	CreatedBy          string             `json:"createdBy" bson:"createdBy"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Published reports whether the form accepts public submissions.
// Either flag is enough; older documents only carry one of them.
func (f *Form) Published() bool {
	return f.IsPublished || f.Status == FormPublished
}

// SetPublished keeps Status and IsPublished in sync
func (f *Form) SetPublished(published bool) {
	f.IsPublished = published
	if published {
		f.Status = FormPublished
	} else {
		f.Status = FormDraft
	}
}

// FormSummary is a form with its response count (owner listing)
type FormSummary struct {
	Form
	ResponseCount int `json:"responseCount"`
}

// PublishedForm is the public listing entry of a published form
type PublishedForm struct {
	ID                 string             `json:"_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Status             FormStatus         `json:"status"`
	SubmissionSettings SubmissionSettings `json:"submissionSettings"`
	QuestionCount      int                `json:"questionCount"`
}

// FormDraftOutline is a generated, unsaved form outline
type FormDraftOutline struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}
