package stubserver

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/logging"
	"github.com/muurk/mmprobe/internal/mattermost"
)

// user is a created account as the server returns it. Passwords are never
// stored or echoed.
type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	CreateAt int64  `json:"create_at"`
	Status   string `json:"status"`
}

// errorBody is the server's JSON error shape
type errorBody struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
	StatusCode int    `json:"status_code"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "api.context.method_not_allowed.app_error", "Method not allowed.")
		return
	}

	resp := s.config.Ping
	if resp.Status == "" {
		resp.Status = mattermost.StatusOK
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "api.context.method_not_allowed.app_error", "Method not allowed.")
		return
	}
	if s.config.SignupDisabled {
		writeError(w, http.StatusNotImplemented, "api.user.create_user.signup_email_disabled.app_error", "User sign-up with email is disabled.")
		return
	}

	var req mattermost.SignupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "api.context.invalid_body_param.app_error", "Invalid or missing user in request body.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.User.Email))
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		writeError(w, http.StatusBadRequest, "model.user.is_valid.email.app_error", "Invalid email.")
		return
	}
	if req.User.Password == "" {
		writeError(w, http.StatusBadRequest, "model.user.is_valid.pwd.app_error", "Your password must contain at least 1 character.")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "app.user.save.email_exists.app_error", "An account with that email already exists.")
		return
	}
	u := &user{
		ID:       newID(),
		Username: req.User.Username,
		Email:    email,
		CreateAt: time.Now().UnixMilli(),
		Status:   mattermost.StatusOK,
	}
	s.users[email] = u
	s.mu.Unlock()

	logging.Info("Account created", zap.String("email", email), zap.String("id", u.ID))
	s.Broadcast(EventNewUser, map[string]string{"user_id": u.ID})
	writeJSON(w, http.StatusCreated, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, id, message string) {
	writeJSON(w, status, errorBody{
		ID:         id,
		Message:    message,
		RequestID:  newID(),
		StatusCode: status,
	})
}

// newID returns a 26 character id in the server's style
func newID() string {
	b := make([]byte, 13)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
