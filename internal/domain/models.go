package domain

// Option is one selectable answer of a question.
type Option struct {
	Description string `json:"description"`
	IsCorrect   bool   `json:"is_correct"`
}

// Question models an MCQ question; option order drives indexing and display.
type Question struct {
	Description string   `json:"description"`
	Options     []Option `json:"options"`
}

// CorrectOption returns the first option flagged as correct.
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return Option{}, false
}

// HasOption reports whether description names one of the question's options.
func (q Question) HasOption(description string) bool {
	for _, opt := range q.Options {
		if opt.Description == description {
			return true
		}
	}
	return false
}

// Quiz is the question set and metadata fetched once per session. It is not mutated after load.
type Quiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// QuestionCount is a convenience for len(q.Questions).
func (q Quiz) QuestionCount() int {
	return len(q.Questions)
}
