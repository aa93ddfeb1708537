package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"timed-quiz/internal/app"
)

// WSHandler drives one player per websocket connection. The browser only draws the screens
// it receives and sends intents back; all session state lives in the player.
type WSHandler struct {
	service     *app.QuizService
	defaultSlug string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultSlug string) *WSHandler {
	return &WSHandler{
		service:     service,
		defaultSlug: defaultSlug,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	PlayID string `json:"playId"`
	Quiz   string `json:"quiz"`
}

// ServeWS upgrades HTTP requests to websockets and runs a player for the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("quiz")
	if slug == "" {
		slug = h.defaultSlug
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	play, err := h.service.OpenPlay(ctx, slug)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer play.Close(context.Background())

	screens, unsubscribe := play.Player.Subscribe()
	defer unsubscribe()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = play.Player.Run(ctx)
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	screensDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				for range send {
				}
				return
			}
		}
	}()

	// joined goes out before any screen
	send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{PlayID: play.ID, Quiz: slug}}

	go func() {
		defer close(screensDone)
		for {
			select {
			case screen, ok := <-screens:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "screen", Payload: screen}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "intent":
			var intent app.Intent
			if err := json.Unmarshal(inbound.Payload, &intent); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid intent payload"}}
				continue
			}
			if err := play.Player.Dispatch(ctx, intent); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-screensDone
	cancel()
	<-runDone
	close(send)
	<-writerDone
}
