package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"prepquiz-service/internal/app"
	"prepquiz-service/internal/domain"
	"prepquiz-service/internal/infra/memory"
)

func TestWebSocketPlayFlow(t *testing.T) {
	attempts := memory.NewAttemptStore()
	server := newTestServer(t, sampleContent(), attempts)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?mode=set&category=earthquake&set=basics"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the first state snapshot.
	_, payload := readNext(conn, t, "state")
	question, ok := payload["question"].(map[string]any)
	if !ok {
		t.Fatalf("expected question in state, got %+v", payload)
	}
	answer := int(question["answerIndex"].(float64))

	choose := map[string]any{
		"type":    "choose",
		"payload": map[string]any{"optionIndex": answer},
	}
	if err := conn.WriteJSON(choose); err != nil {
		t.Fatalf("write choose: %v", err)
	}

	soundSeen := false
	var finished map[string]any
	for i := 0; i < 20 && finished == nil; i++ {
		typ, payload := readNext(conn, t, "")
		switch typ {
		case "sound":
			if payload["kind"] == "correct" {
				soundSeen = true
			}
		case "finished":
			finished = payload
		case "error":
			t.Fatalf("unexpected error message: %+v", payload)
		}
	}
	if !soundSeen {
		t.Fatalf("expected correct sound event")
	}
	if finished == nil {
		t.Fatalf("expected finished message")
	}
	if finished["score"].(float64) != 20 || finished["total"].(float64) != 1 {
		t.Fatalf("unexpected result %+v", finished)
	}

	recent, _ := attempts.Recent(context.Background(), 1)
	if len(recent) != 1 || recent[0].Type != domain.AttemptSet || recent[0].XPEarned != 20 {
		t.Fatalf("expected recorded set attempt, got %+v", recent)
	}
}

func TestWebSocketRejectsBadRequests(t *testing.T) {
	server := newTestServer(t, sampleContent(), memory.NewAttemptStore())
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws?mode=weekly")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", resp.StatusCode)
	}

	empty := newTestServer(t, domain.Content{Categories: []domain.Category{{ID: "empty"}}}, memory.NewAttemptStore())
	defer empty.Close()
	resp, err = http.Get(empty.URL + "/ws?mode=set")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without questions, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T, content domain.Content, attempts *memory.AttemptStore) *httptest.Server {
	t.Helper()
	source := memory.NewStaticContentLoader(content)
	daily := app.NewDailyScheduler(memory.NewKVStore(), source)
	service := app.NewPlayService(source, daily, attempts,
		app.WithEngineOptions(app.WithTiming(time.Second, 20*time.Millisecond)),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewPlayHandler(service, zerolog.Nop()).ServeWS)
	dailyHandler := NewDailyHandler(daily, zerolog.Nop())
	mux.HandleFunc("/daily", dailyHandler.ServeToday)
	mux.HandleFunc("/daily/status", dailyHandler.ServeStatus)
	mux.HandleFunc("/attempts", NewAttemptsHandler(attempts, zerolog.Nop()).ServeRecent)
	return httptest.NewServer(mux)
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func sampleContent() domain.Content {
	return domain.Content{
		Categories: []domain.Category{
			{
				ID: "earthquake",
				Sets: []domain.QuestionSet{
					{
						ID:    "basics",
						Title: "Earthquake basics",
						Questions: []domain.RawQuestion{
							{"question": "What do you do when the shaking starts?", "options": []any{"Run outside", "Drop, cover, hold on", "Stand in a window"}, "answer": "B"},
						},
					},
				},
			},
			{
				ID: "flood",
				Sets: []domain.QuestionSet{
					{
						ID: "basics",
						Questions: []domain.RawQuestion{
							{"question": "Is it safe to drive through flood water?", "options": []any{"Yes", "No"}, "correctAnswer": "No"},
						},
					},
				},
			},
		},
	}
}
