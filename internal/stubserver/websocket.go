package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/logging"
	"github.com/muurk/mmprobe/internal/mattermost"
)

// Events the stub sends besides those clients react to
const (
	EventConfigChanged = mattermost.EventConfig
	EventNewUser       = "new_user"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size accepted from the peer
	maxMessageSize = 8192
)

// streamConn is one connected event stream. Writes are serialised; the
// sequence number counts events sent on this connection.
type streamConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
	seq  int64
}

func (c *streamConn) send(event string, data json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	err := c.conn.WriteJSON(mattermost.Event{Event: event, Data: data, Seq: c.seq})
	c.seq++
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.config.Token != "" && bearerToken(r) != s.config.Token {
		writeError(w, http.StatusUnauthorized, "api.web_socket.connect.upgrade.app_error", "Invalid or expired session, please login again.")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		logging.Warn("WebSocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}
	remoteAddr := conn.RemoteAddr().String()
	c := &streamConn{conn: conn}

	// Track the connection before hello so a client that saw hello also
	// receives broadcasts.
	s.mu.Lock()
	s.activeConns[remoteAddr] = c
	s.mu.Unlock()
	s.wg.Add(1)

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, remoteAddr)
		s.mu.Unlock()
		s.wg.Done()
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	logging.LogConnection(remoteAddr, "websocket_upgraded")

	hello, _ := json.Marshal(map[string]string{"server_version": ServerVersion})
	if err := c.send(mattermost.EventHello, hello); err != nil {
		return
	}

	// Client messages are read and dropped; the loop ends when the client
	// goes away or Shutdown closes the connection.
	conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends an event to every connected stream and returns how many
// received it. data may be nil.
func (s *Server) Broadcast(event string, data any) int {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			logging.Warn("Broadcast data not encodable", zap.String("event", event), zap.Error(err))
			return 0
		}
		raw = encoded
	}

	s.mu.Lock()
	conns := make([]*streamConn, 0, len(s.activeConns))
	for _, c := range s.activeConns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	sent := 0
	for _, c := range conns {
		if err := c.send(event, raw); err != nil {
			logging.Debug("Broadcast failed", zap.String("event", event), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	if token, ok := strings.CutPrefix(auth, "BEARER "); ok {
		return token
	}
	return r.URL.Query().Get("access_token")
}
