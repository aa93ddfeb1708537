package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"timed-quiz/internal/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// QuizLoader reads {slug}.yaml, {slug}.yml or {slug}.json from a directory.
type QuizLoader struct {
	dir string
}

func NewQuizLoader(dir string) *QuizLoader {
	return &QuizLoader{dir: dir}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, slug string) (domain.Quiz, error) {
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, slug+ext)
		quiz, err := ReadQuiz(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return quiz, err
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// ReadQuiz parses a YAML or JSON quiz document. Both formats go through domain.ParseQuiz so
// they share one set of validation rules.
func ReadQuiz(path string) (domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		data, err = yamlToJSON(data)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	quiz, err := domain.ParseQuiz(data)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%s: %w", path, err)
	}
	return quiz, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.MalformedQuizError{Reason: err.Error()}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		// yaml allows non-string map keys, which JSON cannot carry
		return nil, &domain.MalformedQuizError{Reason: err.Error()}
	}
	return out, nil
}
