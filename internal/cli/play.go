package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/httpclient"
	"timed-quiz/internal/render"
	"timed-quiz/internal/session"
)

type playFlags struct {
	url      string
	endpoint string
	duration string
}

// NewPlayCmd fetches the quiz over HTTP and plays it in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var flags playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Fetch the quiz and play it in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runPlay(ctx, *configPath, flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flags.url, "url", os.Getenv("QUIZ_URL"), "base URL of the quiz host (overrides config)")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "quiz path on the host (overrides config)")
	cmd.Flags().StringVar(&flags.duration, "duration", "", "countdown length, e.g. 120s (overrides config)")
	return cmd
}

func runPlay(ctx context.Context, configPath string, flags playFlags, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flags.url != "" {
		cfg.Client.BaseURL = flags.url
	}
	if flags.endpoint != "" {
		cfg.Client.Endpoint = flags.endpoint
	}
	if flags.duration != "" {
		cfg.Quiz.Duration = flags.duration
	}

	loader := httpclient.NewLoader(cfg.Client.BaseURL, cfg.Client.Endpoint, config.TTLDuration(cfg.Client.Timeout, 10*time.Second))
	player := app.NewPlayer(loader, app.PlayerOptions{
		Duration: config.Seconds(cfg.Quiz.Duration, session.DefaultDuration),
		Tick:     config.TTLDuration(cfg.Quiz.Tick, time.Second),
	})
	return playTerminal(ctx, player, in, out)
}

// playTerminal runs player until the user quits, input ends or ctx is canceled.
func playTerminal(ctx context.Context, player *app.Player, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screens, unsubscribe := player.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return player.Run(gctx)
	})
	g.Go(func() error {
		var last render.Screen
		first := true
		for screen := range screens {
			if !first && onlyClockMoved(last, screen) {
				if announceTime(screen.TimeRemaining) {
					fmt.Fprintf(out, "Time Remaining: %ds\n", screen.TimeRemaining)
				}
			} else if err := render.WriteText(out, screen); err != nil {
				return err
			}
			last, first = screen, false
		}
		return nil
	})
	g.Go(func() error {
		return readCommands(gctx, cancel, player, in, out)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readCommands(ctx context.Context, quit context.CancelFunc, player *app.Player, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Printf("read input: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				quit()
				return nil
			}
			intent, stop, err := parseCommand(line, player.Screen())
			if stop {
				quit()
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "? %v\n", err)
				continue
			}
			if err := player.Dispatch(ctx, intent); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

// onlyClockMoved reports a question frame that differs from the previous one only in its timer.
func onlyClockMoved(prev, next render.Screen) bool {
	if prev.Kind != render.KindQuestion || next.Kind != render.KindQuestion {
		return false
	}
	if prev.QuestionIndex != next.QuestionIndex || len(prev.Options) != len(next.Options) || len(prev.Controls) != len(next.Controls) {
		return false
	}
	for i := range prev.Options {
		if prev.Options[i] != next.Options[i] {
			return false
		}
	}
	for i := range prev.Controls {
		if prev.Controls[i] != next.Controls[i] {
			return false
		}
	}
	return prev.TimeRemaining != next.TimeRemaining
}

// announceTime limits terminal timer lines to every 30s and the final 10s.
func announceTime(remaining int) bool {
	return remaining%30 == 0 || remaining <= 10
}
