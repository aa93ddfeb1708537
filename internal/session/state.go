// Package session holds the quiz attempt state machine. State is a value: every transition
// returns a new State and never mutates the receiver.
package session

import "timed-quiz/internal/domain"

// DefaultDuration is the countdown length in seconds used when none is configured.
const DefaultDuration = 120

// Phase is the screen-level position of a session.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// State is one user's attempt at a quiz.
type State struct {
	started       bool
	finished      bool
	currentIndex  int
	answers       map[int]string
	timeRemaining int
	duration      int
}

// New returns a NotStarted state whose countdown resets to duration seconds.
// A negative duration is treated as zero.
func New(duration int) State {
	if duration < 0 {
		duration = 0
	}
	return State{timeRemaining: duration, duration: duration}
}

func (s State) Started() bool      { return s.started }
func (s State) Finished() bool     { return s.finished }
func (s State) CurrentIndex() int  { return s.currentIndex }
func (s State) TimeRemaining() int { return s.timeRemaining }
func (s State) Duration() int      { return s.duration }

// Phase derives the phase from the started/finished flags.
func (s State) Phase() Phase {
	switch {
	case !s.started:
		return PhaseNotStarted
	case s.finished:
		return PhaseFinished
	default:
		return PhaseInProgress
	}
}

// Answer returns the option description recorded for question i.
func (s State) Answer(i int) (string, bool) {
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns a copy of the recorded answers.
func (s State) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// AnsweredCount is the number of questions with a recorded answer.
func (s State) AnsweredCount() int {
	return len(s.answers)
}

// Start moves NotStarted to InProgress with a fresh countdown at the first question.
func (s State) Start() State {
	if s.Phase() != PhaseNotStarted {
		return s
	}
	next := s
	next.started = true
	next.finished = false
	next.currentIndex = 0
	next.timeRemaining = s.duration
	return next
}

// SelectAnswer records option for question i. The first answer for a question is kept; later
// selections and selections outside InProgress are ignored.
func (s State) SelectAnswer(i int, option string) State {
	if s.Phase() != PhaseInProgress || i < 0 || option == "" {
		return s
	}
	if _, ok := s.answers[i]; ok {
		return s
	}
	next := s
	next.answers = s.Answers()
	next.answers[i] = option
	return next
}

// Next advances to the following question once the current one is answered.
func (s State) Next(questionCount int) State {
	if !s.CanNext(questionCount) {
		return s
	}
	next := s
	next.currentIndex++
	return next
}

// CanNext reports whether Next would move.
func (s State) CanNext(questionCount int) bool {
	if s.Phase() != PhaseInProgress {
		return false
	}
	if _, ok := s.answers[s.currentIndex]; !ok {
		return false
	}
	return s.currentIndex < questionCount-1
}

// Prev steps back one question; answering is not required.
func (s State) Prev() State {
	if !s.CanPrev() {
		return s
	}
	next := s
	next.currentIndex--
	return next
}

func (s State) CanPrev() bool {
	return s.Phase() == PhaseInProgress && s.currentIndex > 0
}

// IsLast reports whether the current question is the last one.
func (s State) IsLast(questionCount int) bool {
	return s.currentIndex == questionCount-1
}

// Finish ends an InProgress session. It is a no-op in any other phase, which is what keeps a
// timer expiry from finishing twice.
func (s State) Finish() State {
	if s.Phase() != PhaseInProgress {
		return s
	}
	next := s
	next.finished = true
	return next
}

// Tick consumes one second of the countdown and finishes the session when it reaches zero.
func (s State) Tick() State {
	if s.Phase() != PhaseInProgress {
		return s
	}
	next := s
	if next.timeRemaining > 0 {
		next.timeRemaining--
	}
	if next.timeRemaining == 0 {
		next.finished = true
	}
	return next
}

// Expired reports an InProgress session with no time left.
func (s State) Expired() bool {
	return s.Phase() == PhaseInProgress && s.timeRemaining == 0
}

// Restart returns a brand new NotStarted state with the same configured duration.
func (s State) Restart() State {
	return New(s.duration)
}

// Score counts questions whose recorded answer matches the description of the correct option.
func Score(quiz domain.Quiz, s State) int {
	score := 0
	for i, q := range quiz.Questions {
		answer, ok := s.answers[i]
		if !ok {
			continue
		}
		correct, ok := q.CorrectOption()
		if ok && answer == correct.Description {
			score++
		}
	}
	return score
}
