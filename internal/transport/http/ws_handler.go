package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"prepquiz-service/internal/app"
	"prepquiz-service/internal/domain"
)

// PlayHandler runs one quiz session per websocket connection.
type PlayHandler struct {
	service  *app.PlayService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewPlayHandler(service *app.PlayService, log zerolog.Logger) *PlayHandler {
	return &PlayHandler{
		service:  service,
		log:      log.With().Str("component", "ws_handler").Logger(),
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

type choosePayload struct {
	OptionIndex int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type soundPayload struct {
	Kind app.Sound `json:"kind"`
}

type hapticPayload struct {
	Kind app.Haptic `json:"kind"`
}

type toastPayload struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

// socketEffects forwards engine side effects to the client.
type socketEffects struct {
	emit func(msgType string, payload any)
}

func (s socketEffects) Play(kind app.Sound)    { s.emit("sound", soundPayload{Kind: kind}) }
func (s socketEffects) StopBackground()        { s.emit("sound", soundPayload{Kind: "stop"}) }
func (s socketEffects) Notify(kind app.Haptic) { s.emit("haptic", hapticPayload{Kind: kind}) }
func (s socketEffects) Show(text string)       { s.emit("toast", toastPayload{Text: text, Visible: true}) }
func (s socketEffects) Hide()                  { s.emit("toast", toastPayload{}) }

// outbox queues messages for the socket writer goroutine. emit never blocks past the
// handler closing or the writer exiting; engine callbacks may outlive both.
type outbox struct {
	send       chan outboundMessage[any]
	closed     <-chan struct{}
	writerDone <-chan struct{}
}

func newOutbox(closed, writerDone <-chan struct{}) outbox {
	return outbox{send: make(chan outboundMessage[any], 32), closed: closed, writerDone: writerDone}
}

func (o outbox) emit(msgType string, payload any) {
	select {
	case o.send <- outboundMessage[any]{Type: msgType, Payload: payload}:
	case <-o.closed:
	case <-o.writerDone:
	}
}

// ServeWS upgrades the request and plays the requested quiz over the socket.
// Query: mode=set&category=..&set=.. or mode=daily.
func (h *PlayHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := app.PlayRequest{
		Mode:       domain.AttemptType(query.Get("mode")),
		CategoryID: query.Get("category"),
		SetID:      query.Get("set"),
	}

	plan, err := h.service.Plan(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrNoQuestions), errors.Is(err, domain.ErrContentNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUnknownMode):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	out := newOutbox(closeSignals, writerDone)

	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-out.send:
				if err := conn.WriteJSON(msg); err != nil {
					h.log.Debug().Err(err).Msg("ws write error")
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	emit := out.emit
	effects := socketEffects{emit: emit}
	engine := h.service.NewEngine(plan, app.EngineDeps{
		SFX:     effects,
		Haptics: effects,
		Toaster: effects,
		OnFinish: func(result domain.Result) {
			emit("finished", result)
		},
	}, app.WithOnChange(func(snap app.Snapshot) {
		emit("state", snap)
	}))
	engine.Start()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "choose":
			var payload choosePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", errorPayload{Message: "invalid choose payload"})
				continue
			}
			if !engine.Choose(payload.OptionIndex) {
				msg := "question is not accepting answers"
				if engine.Snapshot().Finished {
					msg = domain.ErrSessionFinished.Error()
				}
				emit("error", errorPayload{Message: msg})
			}
		case "state":
			emit("state", engine.Snapshot())
		default:
			emit("error", errorPayload{Message: "unsupported message type"})
		}
	}

	engine.Stop()
	close(closeSignals)
	<-writerDone
}
