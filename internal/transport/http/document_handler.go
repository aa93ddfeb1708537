package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
)

// DocumentHandler serves quiz documents read-only.
type DocumentHandler struct {
	service     *app.QuizService
	defaultSlug string
}

func NewDocumentHandler(service *app.QuizService, defaultSlug string) *DocumentHandler {
	return &DocumentHandler{service: service, defaultSlug: defaultSlug}
}

type errorPayload struct {
	Message string `json:"message"`
}

type playsPayload struct {
	Slug   string `json:"slug"`
	Active int    `json:"active"`
}

// ServeDefault answers the fixed endpoint with the default quiz.
func (h *DocumentHandler) ServeDefault(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.defaultSlug)
}

func (h *DocumentHandler) ServeQuiz(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, mux.Vars(r)["slug"])
}

func (h *DocumentHandler) ServePlays(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	n, err := h.service.ActivePlays(r.Context(), slug)
	if err != nil {
		log.Printf("count plays %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "could not count plays"})
		return
	}
	writeJSON(w, http.StatusOK, playsPayload{Slug: slug, Active: n})
}

func (h *DocumentHandler) serve(w http.ResponseWriter, r *http.Request, slug string) {
	quiz, err := h.service.Document(r.Context(), slug)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
		return
	case errors.Is(err, domain.ErrMalformedQuizData):
		log.Printf("quiz %s is malformed: %v", slug, err)
		writeJSON(w, http.StatusBadGateway, errorPayload{Message: "stored quiz is malformed"})
		return
	case err != nil:
		log.Printf("load quiz %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "could not load quiz"})
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
