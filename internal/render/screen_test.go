package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/session"
)

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		Title:       "Capitals",
		Description: "Two quick ones",
		Questions: []domain.Question{
			{Description: "Capital of France?", Options: []domain.Option{
				{Description: "Paris", IsCorrect: true},
				{Description: "Lyon"},
			}},
			{Description: "Capital of Italy?", Options: []domain.Option{
				{Description: "Milan"},
				{Description: "Rome", IsCorrect: true},
			}},
		},
	}
}

func TestRenderStartScreen(t *testing.T) {
	screen := Render(sampleQuiz(), session.New(session.DefaultDuration))

	assert.Equal(t, KindStart, screen.Kind)
	assert.Equal(t, "Capitals", screen.Title)
	assert.Equal(t, "Two quick ones", screen.Description)
	assert.True(t, screen.Enabled(ControlStart))
}

func TestRenderQuestionScreenGatesControls(t *testing.T) {
	quiz := sampleQuiz()
	state := session.New(session.DefaultDuration).Start()

	screen := Render(quiz, state)
	assert.Equal(t, KindQuestion, screen.Kind)
	assert.Equal(t, "Question 1 of 2", screen.Progress)
	assert.Equal(t, session.DefaultDuration, screen.TimeRemaining)
	assert.False(t, screen.Enabled(ControlPrev))
	assert.False(t, screen.Enabled(ControlNext))
	assert.False(t, screen.Enabled(ControlFinish))

	state = state.SelectAnswer(0, "Lyon")
	screen = Render(quiz, state)
	assert.True(t, screen.Enabled(ControlNext))
	require.Len(t, screen.Options, 2)
	assert.Equal(t, StyleIncorrect, screen.Options[1].Style)
	assert.True(t, screen.Options[1].Selected)
	assert.Equal(t, StyleNone, screen.Options[0].Style)

	state = state.Next(quiz.QuestionCount())
	screen = Render(quiz, state)
	assert.Equal(t, "Question 2 of 2", screen.Progress)
	assert.True(t, screen.Enabled(ControlPrev))
	assert.False(t, screen.Enabled(ControlNext))
	assert.True(t, screen.Enabled(ControlFinish))

	state = state.SelectAnswer(1, "Rome")
	screen = Render(quiz, state)
	assert.Equal(t, StyleCorrect, screen.Options[1].Style)
}

func TestRenderResultScreen(t *testing.T) {
	quiz := sampleQuiz()
	state := session.New(session.DefaultDuration).Start().SelectAnswer(0, "Paris").Finish()

	screen := Render(quiz, state)
	assert.Equal(t, KindResult, screen.Kind)
	assert.Equal(t, 1, screen.Score)
	assert.Equal(t, 2, screen.QuestionCount)
	assert.True(t, screen.Enabled(ControlRestart))
}

func TestLoadingScreenOffersRetryAfterFailure(t *testing.T) {
	assert.False(t, Loading(false).Enabled(ControlRetry))
	assert.True(t, Loading(true).Enabled(ControlRetry))
}

func TestWriteTextQuestion(t *testing.T) {
	quiz := sampleQuiz()
	state := session.New(90).Start().SelectAnswer(0, "Paris")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Render(quiz, state)))

	out := buf.String()
	assert.Contains(t, out, "Time Remaining: 90s")
	assert.Contains(t, out, "Question 1 of 2")
	assert.Contains(t, out, "* 1) Paris (correct)")
	assert.Contains(t, out, "   2) Lyon\n")
	assert.Contains(t, out, "> [n]ext")
}

func TestWriteTextResult(t *testing.T) {
	quiz := sampleQuiz()
	state := session.New(90).Start().Finish()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Render(quiz, state)))
	assert.Contains(t, buf.String(), "Your Score: 0 / 2")
	assert.Contains(t, buf.String(), "[r]estart")
}
