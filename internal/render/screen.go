// Package render maps a quiz and a session state to screen content. Nothing here has side
// effects; front-ends turn a Screen into text or JSON and send intents back to the player.
package render

import (
	"fmt"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/session"
)

type Kind string

const (
	KindLoading  Kind = "loading"
	KindStart    Kind = "start"
	KindQuestion Kind = "question"
	KindResult   Kind = "result"
)

// Style marks how a selected option is shown.
type Style string

const (
	StyleNone      Style = ""
	StyleCorrect   Style = "correct"
	StyleIncorrect Style = "incorrect"
)

// Control names a user intent a screen offers.
type Control string

const (
	ControlStart   Control = "start"
	ControlPrev    Control = "prev"
	ControlNext    Control = "next"
	ControlFinish  Control = "finish"
	ControlRestart Control = "restart"
	ControlRetry   Control = "retry"
)

type OptionView struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Selected    bool   `json:"selected"`
	Style       Style  `json:"style,omitempty"`
}

type ControlView struct {
	Control Control `json:"control"`
	Enabled bool    `json:"enabled"`
}

// Screen is everything a front-end needs to draw one frame.
type Screen struct {
	Kind          Kind          `json:"kind"`
	Title         string        `json:"title,omitempty"`
	Description   string        `json:"description,omitempty"`
	TimeRemaining int           `json:"timeRemaining,omitempty"`
	Progress      string        `json:"progress,omitempty"`
	QuestionIndex int           `json:"questionIndex"`
	QuestionCount int           `json:"questionCount,omitempty"`
	Question      string        `json:"question,omitempty"`
	Options       []OptionView  `json:"options,omitempty"`
	Controls      []ControlView `json:"controls,omitempty"`
	Score         int           `json:"score"`
}

// Enabled reports whether the screen offers c in an enabled state.
func (s Screen) Enabled(c Control) bool {
	for _, cv := range s.Controls {
		if cv.Control == c {
			return cv.Enabled
		}
	}
	return false
}

// Loading is shown until a quiz is available. failed adds a retry control.
func Loading(failed bool) Screen {
	screen := Screen{Kind: KindLoading, Title: "Loading..."}
	if failed {
		screen.Controls = []ControlView{{Control: ControlRetry, Enabled: true}}
	}
	return screen
}

// Render picks the screen for the session phase.
func Render(quiz domain.Quiz, state session.State) Screen {
	switch state.Phase() {
	case session.PhaseInProgress:
		return questionScreen(quiz, state)
	case session.PhaseFinished:
		return resultScreen(quiz, state)
	default:
		return Screen{
			Kind:          KindStart,
			Title:         quiz.Title,
			Description:   quiz.Description,
			QuestionCount: quiz.QuestionCount(),
			Controls:      []ControlView{{Control: ControlStart, Enabled: true}},
		}
	}
}

func questionScreen(quiz domain.Quiz, state session.State) Screen {
	count := quiz.QuestionCount()
	idx := state.CurrentIndex()
	screen := Screen{
		Kind:          KindQuestion,
		Title:         quiz.Title,
		TimeRemaining: state.TimeRemaining(),
		Progress:      fmt.Sprintf("Question %d of %d", idx+1, count),
		QuestionIndex: idx,
		QuestionCount: count,
	}
	if idx < 0 || idx >= count {
		return screen
	}

	question := quiz.Questions[idx]
	selected, answered := state.Answer(idx)
	screen.Question = question.Description
	screen.Options = make([]OptionView, 0, len(question.Options))
	for i, opt := range question.Options {
		view := OptionView{Index: i, Description: opt.Description}
		if answered && opt.Description == selected {
			view.Selected = true
			if opt.IsCorrect {
				view.Style = StyleCorrect
			} else {
				view.Style = StyleIncorrect
			}
		}
		screen.Options = append(screen.Options, view)
	}

	if state.CanPrev() {
		screen.Controls = append(screen.Controls, ControlView{Control: ControlPrev, Enabled: true})
	}
	screen.Controls = append(screen.Controls, ControlView{Control: ControlNext, Enabled: state.CanNext(count)})
	if state.IsLast(count) {
		screen.Controls = append(screen.Controls, ControlView{Control: ControlFinish, Enabled: true})
	}
	return screen
}

func resultScreen(quiz domain.Quiz, state session.State) Screen {
	return Screen{
		Kind:          KindResult,
		Title:         "Quiz Completed!",
		QuestionCount: quiz.QuestionCount(),
		Score:         session.Score(quiz, state),
		Controls:      []ControlView{{Control: ControlRestart, Enabled: true}},
	}
}
