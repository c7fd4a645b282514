package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"feedbackhub/internal/model"
)

// value is a raw answer interpreted against the type of its question.
// Only the field matching kind is meaningful.
type value struct {
	kind   model.QuestionType
	rating int    // rating
	label  string // yes_no, multiple_choice
	text   string // short_answer, paragraph
}

// parseValue pairs a raw answer with its question. ok is false when the raw
// value is not valid for the question type.
func parseValue(q *model.Question, raw any) (value, bool) {
	switch q.Type {
	case model.QuestionTypeRating:
		n, ok := asInteger(raw)
		if !ok || n < model.MinRating || n > model.MaxRating {
			return value{}, false
		}
		return value{kind: q.Type, rating: int(n)}, true

	case model.QuestionTypeYesNo:
		s, ok := raw.(string)
		if !ok {
			return value{}, false
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes":
			return value{kind: q.Type, label: "Yes"}, true
		case "no":
			return value{kind: q.Type, label: "No"}, true
		}
		return value{}, false

	case model.QuestionTypeMultipleChoice:
		s, ok := raw.(string)
		if !ok {
			return value{}, false
		}
		for _, opt := range q.Options {
			if opt == s {
				return value{kind: q.Type, label: s}, true
			}
		}
		return value{}, false

	case model.QuestionTypeShortAnswer, model.QuestionTypeParagraph:
		s, ok := raw.(string)
		if !ok {
			return value{}, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return value{}, false
		}
		return value{kind: q.Type, text: s}, true
	}
	return value{}, false
}

// asInteger accepts integral numbers of any Go numeric kind, as produced by
// the JSON and BSON decoders, and numeric strings. Booleans are rejected.
func asInteger(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	case float32:
		return floatToInteger(float64(v))
	case float64:
		return floatToInteger(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInteger(f)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return floatToInteger(f)
	}
	return 0, false
}

func floatToInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseRating interprets raw as a rating in 1..5 using the same rules as
// rating answers
func ParseRating(raw any) (int, bool) {
	v, ok := parseValue(&model.Question{Type: model.QuestionTypeRating}, raw)
	return v.rating, ok
}
