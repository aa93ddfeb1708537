package app

import (
	"fmt"

	"timed-quiz/internal/domain"
)

// Action is a user intent understood by the player.
type Action string

const (
	ActionStart   Action = "start"
	ActionSelect  Action = "select"
	ActionNext    Action = "next"
	ActionPrev    Action = "prev"
	ActionFinish  Action = "finish"
	ActionRestart Action = "restart"
	ActionRetry   Action = "retry"
)

// Intent is dispatched by a front-end. Question and Option are only read for ActionSelect.
type Intent struct {
	Action   Action `json:"action"`
	Question int    `json:"question"`
	Option   string `json:"option,omitempty"`
}

// Validate rejects unknown actions before they reach the event loop.
func (in Intent) Validate() error {
	switch in.Action {
	case ActionStart, ActionNext, ActionPrev, ActionFinish, ActionRestart, ActionRetry:
		return nil
	case ActionSelect:
		if in.Question < 0 || in.Option == "" {
			return fmt.Errorf("%w: select needs a question index and an option", domain.ErrInvalidIntent)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidIntent, in.Action)
	}
}
