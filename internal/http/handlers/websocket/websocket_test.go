package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/upload-service/internal/types"
	"github.com/princekumarofficial/upload-service/internal/utils/jwt"
	wsClient "github.com/princekumarofficial/upload-service/internal/websocket"
)

const testSecret = "test-secret-for-watchers"

func startFeed(t *testing.T) (*wsClient.Hub, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := wsClient.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(OutcomeFeed(hub, testSecret))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/outcomes?token=" + token
}

func TestOutcomeFeed_RejectsMissingToken(t *testing.T) {
	_, srv := startFeed(t)

	resp, err := http.Get(srv.URL + "/ws/outcomes")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}
}

func TestOutcomeFeed_RejectsInvalidToken(t *testing.T) {
	_, srv := startFeed(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "not-a-token"), nil)
	if err == nil {
		t.Fatal("Expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 response, got %+v", resp)
	}
}

func TestOutcomeFeed_DeliversBroadcast(t *testing.T) {
	hub, srv := startFeed(t)

	token, err := jwt.GenerateToken("ops", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Watcher was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastToAll(types.NewEvent(types.EventUploadOutcome, &types.UploadOutcomeEvent{
		Outcome:  "stored",
		FileName: "a.png",
		Path:     "upload/a.png",
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}

	var event struct {
		Type types.EventType          `json:"type"`
		Data types.UploadOutcomeEvent `json:"data"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if event.Type != types.EventUploadOutcome || event.Data.Path != "upload/a.png" {
		t.Fatalf("Unexpected event: %+v", event)
	}
}
