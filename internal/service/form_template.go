package service

import (
	"strings"

	"feedbackhub/internal/model"
)

var aiTopicKeywords = []string{"ai", "ml", "machine learning", "bootcamp", "nlp"}

var (
	aiTopicOptions = []string{
		"Machine Learning Fundamentals",
		"Deep Learning Architectures",
		"Natural Language Processing",
		"Computer Vision",
		"Deployment and MLOps",
	}
	generalTopicOptions = []string{
		"Hands-on Activities",
		"Instructor Delivery",
		"Content Quality",
		"Practical Examples",
		"Q&A and Interaction",
	}
)

// GenerateDraft builds a five question feedback form outline from a prompt.
// It is deterministic: the topic question's options depend only on whether
// the prompt mentions an AI/ML keyword.
func GenerateDraft(prompt string) (*model.FormDraftOutline, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, newError(ErrValidation, "Prompt is required")
	}

	lower := strings.ToLower(prompt)
	options := generalTopicOptions
	for _, k := range aiTopicKeywords {
		if strings.Contains(lower, k) {
			options = aiTopicOptions
			break
		}
	}

	return &model.FormDraftOutline{
		Title:       prompt + " Feedback Form",
		Description: "Please provide your feedback for " + prompt + ".",
		Questions: []model.Question{
			{
				Title:    "On a scale of 1 to 5, how would you rate your overall experience?",
				Type:     model.QuestionTypeRating,
				Required: true,
				Options:  []string{},
			},
			{
				Title:    "What was the most valuable aspect for you?",
				Type:     model.QuestionTypeShortAnswer,
				Required: true,
				Options:  []string{},
			},
			{
				Title:    "Do you believe this prepared you well for real-world applications?",
				Type:     model.QuestionTypeYesNo,
				Required: true,
				Options:  []string{},
			},
			{
				Title:    "Which of the following topics did you find most engaging?",
				Type:     model.QuestionTypeMultipleChoice,
				Required: true,
				Options:  append([]string(nil), options...),
			},
			{
				Title:    "What suggestions do you have to improve in the future?",
				Type:     model.QuestionTypeParagraph,
				Required: false,
				Options:  []string{},
			},
		},
	}, nil
}
