package mattermost

// API paths, relative to the server base URL.
const (
	UsersPath     = "/api/v4/users"
	PingPath      = "/api/v4/system/ping"
	WebSocketPath = "/api/v4/websocket"
)

// StatusOK is the status value a healthy server reports.
const StatusOK = "OK"

// NewUser is the user object inside a signup request.
type NewUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// SignupRequest is the body of POST /api/v4/users.
type SignupRequest struct {
	User NewUser `json:"user"`
}

// NewSignupRequest builds a signup body from a single email value. The form
// has only one input, so the same value is sent as email, password and
// username.
func NewSignupRequest(email string) SignupRequest {
	return SignupRequest{
		User: NewUser{
			Email:    email,
			Password: email,
			Username: email,
		},
	}
}

// SignupResponse is the decoded answer to a signup request.
type SignupResponse struct {
	Status string `json:"status"`
}

// PingResponse is the decoded answer to GET /api/v4/system/ping.
type PingResponse struct {
	Status               string `json:"status"`
	DesktopLatestVersion string `json:"DesktopLatestVersion"`
	DesktopMinVersion    string `json:"DesktopMinVersion"`
	AndroidLatestVersion string `json:"AndroidLatestVersion"`
	AndroidMinVersion    string `json:"AndroidMinVersion"`
	IosLatestVersion     string `json:"IosLatestVersion"`
	IosMinVersion        string `json:"IosMinVersion"`
}

// Healthy reports whether the server answered with status OK.
func (p PingResponse) Healthy() bool {
	return p.Status == StatusOK
}

// ClientVersion is one row of the client version table.
type ClientVersion struct {
	Platform string
	Latest   string
	Minimum  string
}

// ClientVersions returns the version hints in display order.
func (p PingResponse) ClientVersions() []ClientVersion {
	return []ClientVersion{
		{Platform: "Desktop", Latest: p.DesktopLatestVersion, Minimum: p.DesktopMinVersion},
		{Platform: "Android", Latest: p.AndroidLatestVersion, Minimum: p.AndroidMinVersion},
		{Platform: "iOS", Latest: p.IosLatestVersion, Minimum: p.IosMinVersion},
	}
}

// errorBody is the JSON error object the server sends with 4xx and 5xx
// responses.
type errorBody struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	DetailedError string `json:"detailed_error"`
	RequestID     string `json:"request_id"`
	StatusCode    int    `json:"status_code"`
}
