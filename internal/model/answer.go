package model

import "time"

// IdentityMode is how a respondent identified themselves
type IdentityMode string

const (
	IdentityAnonymous IdentityMode = "anonymous"
	IdentityNamed     IdentityMode = "named"
)

// MaxRespondentNameLen bounds Identity.RespondentName
const MaxRespondentNameLen = 100

// Identity of a respondent
type Identity struct {
	Mode           IdentityMode `json:"mode" bson:"mode"`
	RespondentName string       `json:"respondentName" bson:"respondentName"`
}

// Answer pairs a question with the raw submitted value.
// Value is stored as received (number, string, bool, ...); it is only
// interpreted once paired with its question during analytics.
type Answer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Value      any    `json:"answer" bson:"answer"`
}

// Response is one respondent's submission against a form
type Response struct {
	ID          string    `json:"_id" bson:"_id"`
	FormID      string    `json:"formId" bson:"formId"`
	Answers     []Answer  `json:"answers" bson:"answers"`
	Identity    Identity  `json:"identity" bson:"identity"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}
