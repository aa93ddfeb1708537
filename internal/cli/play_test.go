package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"timed-quiz/internal/app"
	"timed-quiz/internal/infra/memory"
	"timed-quiz/internal/quizdata"
	transport "timed-quiz/internal/transport/http"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, out.String())
}

func TestPlayAgainstLocalHost(t *testing.T) {
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(quizdata.Quizzes()), time.Minute)
	service := app.NewQuizService(quizRepo, memory.NewPlayRegistry(), app.PlayerOptions{Duration: 120})
	server := httptest.NewServer(transport.NewRouter(service, "/Uw5CrX", quizdata.DefaultSlug))
	defer server.Close()

	in, input := io.Pipe()
	defer input.Close()
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() {
		flags := playFlags{url: server.URL, duration: "60s"}
		done <- runPlay(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), flags, in, out)
	}()

	send := func(line string) {
		t.Helper()
		if _, err := io.WriteString(input, line+"\n"); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}

	waitOutput(t, out, "Web Fundamentals")
	send("s")
	waitOutput(t, out, "Question 1 of 5")
	waitOutput(t, out, "Time Remaining: 60s")
	send("1")
	waitOutput(t, out, "1) GET (correct)")
	send("n")
	waitOutput(t, out, "Question 2 of 5")
	send("9")
	waitOutput(t, out, "? pick an option between 1 and 4")
	send("q")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("play returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("play did not exit after quit")
	}
}

func TestPlayStaysOnLoadingWhenHostIsDown(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	in, input := io.Pipe()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		flags := playFlags{url: url}
		done <- runPlay(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), flags, in, out)
	}()

	waitOutput(t, out, "> [r]etry")
	if strings.Contains(out.String(), "Start") {
		t.Fatalf("unexpected start screen:\n%s", out.String())
	}
	input.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("play returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("play did not exit at end of input")
	}
}
