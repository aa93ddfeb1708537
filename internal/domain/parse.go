package domain

import (
	"encoding/json"
	"fmt"
)

// wire types use pointers so missing fields can be told apart from zero values.
type wireOption struct {
	Description *string `json:"description"`
	IsCorrect   *bool   `json:"is_correct"`
}

type wireQuestion struct {
	Description *string      `json:"description"`
	Options     []wireOption `json:"options"`
}

type wireQuiz struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Questions   []wireQuestion `json:"questions"`
}

// ParseQuiz decodes and validates a quiz document. Any schema violation is reported as a
// *MalformedQuizError, so callers can match it with errors.Is(err, ErrMalformedQuizData).
func ParseQuiz(data []byte) (Quiz, error) {
	var raw wireQuiz
	if err := json.Unmarshal(data, &raw); err != nil {
		return Quiz{}, &MalformedQuizError{Reason: err.Error()}
	}
	return raw.validate()
}

func (w wireQuiz) validate() (Quiz, error) {
	if w.Title == nil {
		return Quiz{}, &MalformedQuizError{Path: "title", Reason: "missing field"}
	}
	if w.Questions == nil {
		return Quiz{}, &MalformedQuizError{Path: "questions", Reason: "missing field"}
	}
	if len(w.Questions) == 0 {
		return Quiz{}, &MalformedQuizError{Path: "questions", Reason: "need at least one question"}
	}

	quiz := Quiz{
		Title:     *w.Title,
		Questions: make([]Question, 0, len(w.Questions)),
	}
	if w.Description != nil {
		quiz.Description = *w.Description
	}

	for i, wq := range w.Questions {
		path := fmt.Sprintf("questions[%d]", i)
		if wq.Description == nil || *wq.Description == "" {
			return Quiz{}, &MalformedQuizError{Path: path + ".description", Reason: "missing field"}
		}
		if len(wq.Options) == 0 {
			return Quiz{}, &MalformedQuizError{Path: path + ".options", Reason: "need at least one option"}
		}

		question := Question{
			Description: *wq.Description,
			Options:     make([]Option, 0, len(wq.Options)),
		}
		correct := 0
		for j, wo := range wq.Options {
			optPath := fmt.Sprintf("%s.options[%d]", path, j)
			if wo.Description == nil || *wo.Description == "" {
				return Quiz{}, &MalformedQuizError{Path: optPath + ".description", Reason: "missing field"}
			}
			opt := Option{Description: *wo.Description}
			if wo.IsCorrect != nil && *wo.IsCorrect {
				opt.IsCorrect = true
				correct++
			}
			question.Options = append(question.Options, opt)
		}
		if correct == 0 {
			return Quiz{}, &MalformedQuizError{Path: path + ".options", Reason: "no option marked is_correct"}
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz, nil
}
