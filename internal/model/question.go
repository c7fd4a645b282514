package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeRating         QuestionType = "rating"          // Integer 1-5
	QuestionTypeYesNo          QuestionType = "yes_no"          // "Yes" / "No"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // One of Options
	QuestionTypeShortAnswer    QuestionType = "short_answer"    // Free text
	QuestionTypeParagraph      QuestionType = "paragraph"       // Free text
)

// IsText reports whether answers to this type are free text
func (t QuestionType) IsText() bool {
	return t == QuestionTypeShortAnswer || t == QuestionTypeParagraph
}

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeRating, QuestionTypeYesNo, QuestionTypeMultipleChoice,
		QuestionTypeShortAnswer, QuestionTypeParagraph:
		return true
	}
	return false
}

// Question is a single item of a form
type Question struct {
	ID       string       `json:"_id" bson:"_id"`
	Title    string       `json:"title" bson:"title"`
	Type     QuestionType `json:"type" bson:"type"`
	Required bool         `json:"required" bson:"required"`
	Options  []string     `json:"options" bson:"options"` // multiple_choice only
}
