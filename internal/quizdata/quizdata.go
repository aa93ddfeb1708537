// Package quizdata embeds the quiz served when no other source is configured.
package quizdata

import (
	_ "embed"

	"timed-quiz/internal/domain"
)

// DefaultSlug names the built-in quiz.
const DefaultSlug = "default"

//go:embed default.json
var defaultJSON []byte

// DefaultJSON returns a copy of the raw document.
func DefaultJSON() []byte {
	out := make([]byte, len(defaultJSON))
	copy(out, defaultJSON)
	return out
}

// Default parses the embedded document. It panics on a broken build asset.
func Default() domain.Quiz {
	quiz, err := domain.ParseQuiz(defaultJSON)
	if err != nil {
		panic("quizdata: " + err.Error())
	}
	return quiz
}

// Quizzes is the default catalog for a static loader.
func Quizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{DefaultSlug: Default()}
}
