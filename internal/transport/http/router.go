package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"timed-quiz/internal/app"
)

// NewRouter wires the quiz document endpoint, the websocket player and health checks.
// endpoint is the fixed path clients fetch the default quiz from.
func NewRouter(service *app.QuizService, endpoint, defaultSlug string) http.Handler {
	docs := NewDocumentHandler(service, defaultSlug)
	ws := NewWSHandler(service, defaultSlug)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc(endpoint, docs.ServeDefault).Methods(http.MethodGet)
	r.HandleFunc("/quizzes/{slug}", docs.ServeQuiz).Methods(http.MethodGet)
	r.HandleFunc("/quizzes/{slug}/plays", docs.ServePlays).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)
	return r
}
