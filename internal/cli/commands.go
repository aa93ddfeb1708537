package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"timed-quiz/internal/app"
	"timed-quiz/internal/render"
)

var errUnknownCommand = errors.New("unknown command")

// parseCommand maps a terminal line to an intent for the screen currently shown. Numbers pick
// an option of the current question, 1-based as printed.
func parseCommand(line string, screen render.Screen) (intent app.Intent, quit bool, err error) {
	word := strings.ToLower(strings.TrimSpace(line))
	switch word {
	case "":
		return app.Intent{}, false, errUnknownCommand
	case "q", "quit", "exit":
		return app.Intent{}, true, nil
	case "s", "start":
		return app.Intent{Action: app.ActionStart}, false, nil
	case "n", "next":
		return app.Intent{Action: app.ActionNext}, false, nil
	case "p", "prev":
		return app.Intent{Action: app.ActionPrev}, false, nil
	case "f", "finish":
		return app.Intent{Action: app.ActionFinish}, false, nil
	case "restart":
		return app.Intent{Action: app.ActionRestart}, false, nil
	case "retry":
		return app.Intent{Action: app.ActionRetry}, false, nil
	case "r":
		// the shortcut never throws away a running attempt; "restart" spelled out still does
		switch screen.Kind {
		case render.KindLoading:
			return app.Intent{Action: app.ActionRetry}, false, nil
		case render.KindResult:
			return app.Intent{Action: app.ActionRestart}, false, nil
		}
		return app.Intent{}, false, fmt.Errorf("%w: type restart to start over", errUnknownCommand)
	}

	n, convErr := strconv.Atoi(word)
	if convErr != nil {
		return app.Intent{}, false, fmt.Errorf("%w: %q", errUnknownCommand, word)
	}
	if screen.Kind != render.KindQuestion {
		return app.Intent{}, false, fmt.Errorf("no question on screen")
	}
	if n < 1 || n > len(screen.Options) {
		return app.Intent{}, false, fmt.Errorf("pick an option between 1 and %d", len(screen.Options))
	}
	return app.Intent{
		Action:   app.ActionSelect,
		Question: screen.QuestionIndex,
		Option:   screen.Options[n-1].Description,
	}, false, nil
}
