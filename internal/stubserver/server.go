package stubserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/logging"
	"github.com/muurk/mmprobe/internal/mattermost"
)

// ServerVersion is reported in the hello event and X-Version-Id header.
const ServerVersion = "9.11.0.stub"

// Config holds the stub server configuration
type Config struct {
	Host string
	Port int

	// Token is the bearer token the event stream requires. Empty accepts
	// any caller.
	Token string

	// SignupDisabled makes POST /api/v4/users answer 501, as a server with
	// open account creation turned off does.
	SignupDisabled bool

	// Ping is the health answer. An empty Status means "OK". Any status is
	// served with HTTP 200, so a degraded server still reports its versions.
	Ping mattermost.PingResponse
}

// DefaultConfig returns a healthy server on the standard port.
func DefaultConfig() *Config {
	return &Config{
		Host: "127.0.0.1",
		Port: mattermostPort,
		Ping: mattermost.PingResponse{
			Status:               mattermost.StatusOK,
			DesktopLatestVersion: "5.9.0",
			DesktopMinVersion:    "5.3.0",
			AndroidLatestVersion: "2.20.0",
			AndroidMinVersion:    "2.0.0",
			IosLatestVersion:     "2.20.0",
			IosMinVersion:        "2.0.0",
		},
	}
}

const mattermostPort = 8065

// Server is an in-memory Mattermost stand-in
type Server struct {
	config   *Config
	listener net.Listener
	http     *http.Server
	upgrader websocket.Upgrader

	mu          sync.Mutex
	users       map[string]*user // Keyed by email
	activeConns map[string]*streamConn
	wg          sync.WaitGroup
}

// New creates a new Server instance. A nil config uses DefaultConfig.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{
		config:      config,
		users:       make(map[string]*user),
		activeConns: make(map[string]*streamConn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Desktop and web clients connect from other origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(mattermost.PingPath, s.handlePing)
	mux.HandleFunc(mattermost.UsersPath, s.handleUsers)
	mux.HandleFunc(mattermost.WebSocketPath, s.handleWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "api.context.404.app_error", "Sorry, we could not find the page.")
	})
	return withVersionHeader(mux)
}

// Addr returns the listening address once Start has bound it
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start starts the server and blocks until shutdown
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	logging.Info("Stub server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("signup_disabled", s.config.SignupDisabled),
		zap.Bool("token_required", s.config.Token != ""),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.Serve(listener)
	}()

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				n := s.Broadcast(EventConfigChanged, nil)
				logging.Info("Broadcast config change", zap.Int("receivers", n))
				continue
			}
			logging.Info("Shutdown signal received, stopping server...")
			return s.Shutdown(context.Background())
		case <-ctx.Done():
			return s.Shutdown(context.Background())
		case err := <-errChan:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	}
}

// Shutdown stops accepting requests, closes open event streams, and waits
// for their handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down stub server...")

	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	// Hijacked websocket connections are not covered by http.Server.Shutdown
	s.mu.Lock()
	for addr, c := range s.activeConns {
		logging.Debug("Closing event stream", zap.String("remote_addr", addr))
		_ = c.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}
	return err
}

// GetActiveConnections returns the number of open event streams
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

// Users returns the number of accounts created so far
func (s *Server) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func withVersionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Version-Id", ServerVersion)
		next.ServeHTTP(w, r)
	})
}
