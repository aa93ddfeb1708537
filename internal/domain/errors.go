package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrMalformedQuizData is returned when a quiz payload does not match the expected schema.
	ErrMalformedQuizData = errors.New("malformed quiz data")
	// ErrFetchFailed indicates the quiz endpoint could not be reached or answered with a non-2xx status.
	ErrFetchFailed = errors.New("quiz fetch failed")
	// ErrPlayerStopped is returned when an intent is dispatched to a player that is no longer running.
	ErrPlayerStopped = errors.New("player stopped")
	// ErrInvalidIntent indicates an intent that names an unknown action, question or option.
	ErrInvalidIntent = errors.New("invalid intent")
)

// MalformedQuizError pinpoints which field of a quiz payload failed validation.
type MalformedQuizError struct {
	Path   string
	Reason string
}

func (e *MalformedQuizError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedQuizData, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedQuizData, e.Path, e.Reason)
}

func (e *MalformedQuizError) Unwrap() error {
	return ErrMalformedQuizData
}
