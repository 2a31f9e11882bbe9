package mattermost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed between messages from the server; the server pings more
	// often than this
	readWait = 90 * time.Second

	// Maximum message size accepted from the server
	maxEventSize = 1 << 20
)

// Well-known event names.
const (
	EventHello       = "hello"
	EventStatus      = "status_change"
	EventConfig      = "config_changed"
	EventLicense     = "license_changed"
	EventPluginState = "plugin_statuses_changed"
)

// Event is one message from the server event stream.
type Event struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	Broadcast json.RawMessage `json:"broadcast,omitempty"`
	Seq       int64           `json:"seq"`
}

// ErrStreamClosed is returned by Next after Close.
var ErrStreamClosed = errors.New("event stream closed")

// EventStream is a read-only connection to /api/v4/websocket.
type EventStream struct {
	conn *websocket.Conn
	url  string
}

// WebSocketURL returns the event stream URL for the client's server.
func (c *Client) WebSocketURL() string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.JoinPath(WebSocketPath).String()
}

// DialEvents opens the server event stream. token, when set, is sent as a
// bearer token; servers that require a session reject anonymous streams.
func (c *Client) DialEvents(ctx context.Context, token string) (*EventStream, error) {
	wsURL := c.WebSocketURL()

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: writeWait,
	}
	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 400 {
				return nil, NewHTTPError(http.MethodGet, wsURL, resp.StatusCode, nil)
			}
		}
		return nil, ClassifyNetworkError(err, wsURL)
	}

	conn.SetReadLimit(maxEventSize)
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})

	logging.LogConnection(wsURL, "websocket_connected")
	return &EventStream{conn: conn, url: wsURL}, nil
}

// URL returns the stream address.
func (s *EventStream) URL() string {
	return s.url
}

// Next blocks until the next event arrives. Messages that are not events,
// such as replies to client actions, are skipped.
func (s *EventStream) Next() (Event, error) {
	if s == nil || s.conn == nil {
		return Event{}, ErrStreamClosed
	}

	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			return Event{}, ClassifyNetworkError(err, s.url)
		}

		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Event{}, ErrStreamClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return Event{}, ErrStreamClosed
			}
			return Event{}, ClassifyNetworkError(err, s.url)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			logging.Warn("Undecodable event stream message",
				zap.String("url", s.url),
				zap.Int("length", len(data)),
				zap.Error(err),
			)
			continue
		}
		if ev.Event == "" {
			continue
		}

		logging.LogWebSocketEvent(s.url, ev.Event, ev.Seq, len(data))
		return ev, nil
	}
}

// Close sends a close frame and shuts the connection.
func (s *EventStream) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	err := s.conn.Close()
	logging.LogConnection(s.url, "websocket_closed")
	if err != nil {
		return fmt.Errorf("close event stream: %w", err)
	}
	return nil
}
