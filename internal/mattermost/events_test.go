package mattermost

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newEventServer(t *testing.T, handle func(conn *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != WebSocketPath {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()
		handle(conn, r)
	}))
}

func TestClient_WebSocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "http://localhost:8065", want: "ws://localhost:8065/api/v4/websocket"},
		{base: "https://chat.example.com", want: "wss://chat.example.com/api/v4/websocket"},
		{base: "https://example.com/mattermost/", want: "wss://example.com/mattermost/api/v4/websocket"},
	}
	for _, tt := range tests {
		client, err := NewClient(tt.base)
		if err != nil {
			t.Fatalf("NewClient(%q) error = %v", tt.base, err)
		}
		if got := client.WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL() = %s, want %s", got, tt.want)
		}
	}
}

func TestEventStream_Next(t *testing.T) {
	auth := make(chan string, 1)
	server := newEventServer(t, func(conn *websocket.Conn, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"hello","data":{"server_version":"9.11.0"},"seq":0}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"OK","seq_reply":1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0x01})
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"config_changed","seq":1}`))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})
	defer server.Close()

	client, _ := NewClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stream, err := client.DialEvents(ctx, "tok")
	if err != nil {
		t.Fatalf("DialEvents() error = %v", err)
	}
	defer func() { _ = stream.Close() }()

	first, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Event != EventHello || first.Seq != 0 {
		t.Errorf("first = %+v, want hello", first)
	}
	if !strings.Contains(string(first.Data), "9.11.0") {
		t.Errorf("Data = %s", first.Data)
	}

	second, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if second.Event != EventConfig || second.Seq != 1 {
		t.Errorf("second = %+v, want config_changed", second)
	}

	if _, err := stream.Next(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Next() after close frame error = %v, want ErrStreamClosed", err)
	}
	if got := <-auth; got != "Bearer tok" {
		t.Errorf("Authorization = %q, want Bearer tok", got)
	}
}

func TestDialEvents_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.DialEvents(context.Background(), "")

	if StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("error = %v, want HTTP 401", err)
	}
}

func TestEventStream_NilIsClosed(t *testing.T) {
	var stream *EventStream
	if _, err := stream.Next(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Next() on nil stream error = %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("Close() on nil stream error = %v", err)
	}
}
