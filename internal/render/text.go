package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText prints a screen for a line-oriented terminal.
func WriteText(w io.Writer, s Screen) error {
	bw := bufio.NewWriter(w)
	switch s.Kind {
	case KindLoading:
		fmt.Fprintln(bw, s.Title)
	case KindStart:
		fmt.Fprintf(bw, "%s\n", s.Title)
		if s.Description != "" {
			fmt.Fprintf(bw, "%s\n", s.Description)
		}
	case KindQuestion:
		fmt.Fprintf(bw, "Time Remaining: %ds\n", s.TimeRemaining)
		fmt.Fprintf(bw, "%s\n", s.Progress)
		fmt.Fprintf(bw, "%s\n", s.Question)
		for _, opt := range s.Options {
			marker := " "
			if opt.Selected {
				marker = "*"
			}
			line := fmt.Sprintf(" %s %d) %s", marker, opt.Index+1, opt.Description)
			if opt.Style != StyleNone {
				line += " (" + string(opt.Style) + ")"
			}
			fmt.Fprintln(bw, line)
		}
	case KindResult:
		fmt.Fprintf(bw, "%s\n", s.Title)
		fmt.Fprintf(bw, "Your Score: %d / %d\n", s.Score, s.QuestionCount)
	}

	if hint := controlHint(s.Controls); hint != "" {
		fmt.Fprintf(bw, "> %s\n", hint)
	}
	return bw.Flush()
}

func controlHint(controls []ControlView) string {
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		if !c.Enabled {
			continue
		}
		parts = append(parts, "["+string(c.Control[:1])+"]"+string(c.Control[1:]))
	}
	return strings.Join(parts, " ")
}
