package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timed-quiz/internal/domain"
)

// maxBody caps the quiz document size.
const maxBody = 1 << 20

// Loader issues the single GET that fetches the quiz.
type Loader struct {
	client *http.Client
	url    string
}

// NewLoader joins baseURL and endpoint (e.g. "http://localhost:8080" and "/Uw5CrX").
func NewLoader(baseURL, endpoint string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	url := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
	return &Loader{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (l *Loader) URL() string {
	return l.url
}

func (l *Loader) Load(ctx context.Context) (domain.Quiz, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Quiz{}, fmt.Errorf("%w: GET %s: HTTP %d", domain.ErrFetchFailed, l.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: read body: %v", domain.ErrFetchFailed, err)
	}
	if len(body) > maxBody {
		return domain.Quiz{}, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrFetchFailed, maxBody)
	}
	return domain.ParseQuiz(body)
}
