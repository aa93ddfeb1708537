package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/memory"
	redisinfra "timed-quiz/internal/infra/redis"
	"timed-quiz/internal/session"
	transport "timed-quiz/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that hosts the quiz document and websocket players.
func NewServeCmd(configPath *string) *cobra.Command {
	envPort := os.Getenv("PORT")

	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz document and websocket players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", envPort, "port to listen on (overrides config)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if b.redis != nil {
		quizRepo = redisinfra.NewQuizRepository(b.redis, b.loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(b.loader, quizTTL)
	}

	var plays app.PlayRegistry
	heartbeat := app.DefaultHeartbeat
	if b.redis != nil {
		playTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		plays = redisinfra.NewPlayRegistry(b.redis, playTTL)
		// plays must refresh well inside the registry ttl
		if playTTL > 0 && playTTL/3 < heartbeat {
			heartbeat = playTTL / 3
		}
	} else {
		plays = memory.NewPlayRegistry()
	}

	service := app.NewQuizService(quizRepo, plays, app.PlayerOptions{
		Duration: config.Seconds(cfg.Quiz.Duration, session.DefaultDuration),
		Tick:     config.TTLDuration(cfg.Quiz.Tick, time.Second),
	}, app.WithHeartbeat(heartbeat))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, cfg.Quiz.Endpoint, cfg.Quiz.Slug),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting quiz service on :%s (quiz %q at %s)", finalPort, cfg.Quiz.Slug, cfg.Quiz.Endpoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case <-stop:
			log.Println("shutting down server...")
		case <-gctx.Done():
			log.Println("context canceled, shutting down server...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
