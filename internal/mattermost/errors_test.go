package mattermost

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

// timeoutError is a mock error that implements timeout behavior
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func wrapDial(err error) error {
	return &url.Error{
		Op:  "Get",
		URL: "http://localhost:8065/api/v4/system/ping",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: err},
	}
}

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantMsg  string
	}{
		{name: "timeout", err: wrapDial(&timeoutError{}), wantType: ErrTypeTimeout},
		{name: "connection refused", err: wrapDial(syscall.ECONNREFUSED), wantType: ErrTypeConnectionRefused},
		{name: "host unreachable", err: wrapDial(syscall.EHOSTUNREACH), wantType: ErrTypeNetwork, wantMsg: "Host unreachable"},
		{name: "network unreachable", err: wrapDial(syscall.ENETUNREACH), wantType: ErrTypeNetwork, wantMsg: "Network unreachable"},
		{
			name:     "dns",
			err:      &url.Error{Op: "Get", URL: "http://nowhere.invalid", Err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}},
			wantType: ErrTypeDNS,
			wantMsg:  "nowhere.invalid",
		},
		{name: "deadline", err: &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}, wantType: ErrTypeTimeout},
		{name: "canceled", err: &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}, wantType: ErrTypeCanceled},
		{name: "generic", err: errors.New("something odd"), wantType: ErrTypeNetwork, wantMsg: "Network error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ClassifyNetworkError(tt.err, "http://localhost:8065")
			if apiErr == nil {
				t.Fatal("Expected APIError, got nil")
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", apiErr.Type, tt.wantType)
			}
			if tt.wantMsg != "" && !strings.Contains(apiErr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", apiErr.Message, tt.wantMsg)
			}
			if apiErr.URL != "http://localhost:8065" {
				t.Errorf("URL = %q", apiErr.URL)
			}
		})
	}
}

func TestClassifyNetworkError_Nil(t *testing.T) {
	if got := ClassifyNetworkError(nil, ""); got != nil {
		t.Errorf("ClassifyNetworkError(nil) = %v, want nil", got)
	}
}

func TestNewHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantMsg    string
		wantServer string
	}{
		{
			name:       "server error object",
			body:       `{"id":"app.user.save.email_exists.app_error","message":"An account with that email already exists.","status_code":400}`,
			wantMsg:    "An account with that email already exists. (status 400)",
			wantServer: "app.user.save.email_exists.app_error",
		},
		{name: "plain text", body: "bad request", wantMsg: "POST http://x/api/v4/users returned status 400"},
		{name: "empty message", body: `{"message":"  "}`, wantMsg: "POST http://x/api/v4/users returned status 400"},
		{name: "no body", wantMsg: "POST http://x/api/v4/users returned status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHTTPError(http.MethodPost, "http://x/api/v4/users", http.StatusBadRequest, []byte(tt.body))
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.ServerID != tt.wantServer {
				t.Errorf("ServerID = %q, want %q", err.ServerID, tt.wantServer)
			}
			if err.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d", err.StatusCode)
			}
		})
	}
}

func TestAPIError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := NewParseError("http://x", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if got := err.Error(); got != "Parse Error: decode response (caused by: unexpected EOF)" {
		t.Errorf("Error() = %q", got)
	}

	bare := &APIError{Type: ErrTypeHTTP, Message: "GET x returned status 500"}
	if got := bare.Error(); got != "HTTP Error: GET x returned status 500" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorPredicates(t *testing.T) {
	httpErr := NewHTTPError(http.MethodGet, "http://x", 500, nil)
	netErr := ClassifyNetworkError(wrapDial(syscall.ECONNREFUSED), "http://x")
	parseErr := NewParseError("http://x", errors.New("bad"))
	wrapped := errors.Join(errors.New("context"), httpErr)

	if !IsHTTPError(httpErr) || IsHTTPError(netErr) {
		t.Error("IsHTTPError mismatch")
	}
	if !IsHTTPError(wrapped) {
		t.Error("IsHTTPError should see through wrapping")
	}
	if !IsNetworkError(netErr) || IsNetworkError(httpErr) {
		t.Error("IsNetworkError mismatch")
	}
	if !IsParseError(parseErr) || IsParseError(httpErr) {
		t.Error("IsParseError mismatch")
	}
	if StatusCode(httpErr) != 500 || StatusCode(errors.New("x")) != 0 {
		t.Error("StatusCode mismatch")
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "timeout", err: ClassifyNetworkError(wrapDial(&timeoutError{}), ""), want: "did not respond in time"},
		{name: "refused", err: ClassifyNetworkError(wrapDial(syscall.ECONNREFUSED), ""), want: "8065"},
		{name: "server error", err: NewHTTPError("GET", "x", 503, nil), want: "HTTP 503"},
		{name: "signup disabled", err: NewHTTPError("POST", "x", 501, nil), want: "Open signup may be disabled"},
		{name: "not found", err: NewHTTPError("GET", "x", 404, nil), want: "not found"},
		{name: "parse", err: NewParseError("x", errors.New("bad")), want: "Failed to parse"},
		{name: "foreign error", err: errors.New("x"), want: "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := GetTroubleshootingHint(tt.err)
			if !strings.Contains(hint, tt.want) {
				t.Errorf("hint = %q, want it to contain %q", hint, tt.want)
			}
		})
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	if got := GetShortErrorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("foreign error = %q", got)
	}
	refused := ClassifyNetworkError(wrapDial(syscall.ECONNREFUSED), "")
	if got := GetShortErrorMessage(refused); got != "Server refused connection" {
		t.Errorf("refused = %q", got)
	}
	httpErr := NewHTTPError("POST", "x", 400, []byte(`{"message":"Invalid email."}`))
	if got := GetShortErrorMessage(httpErr); got != "Invalid email. (status 400)" {
		t.Errorf("http = %q", got)
	}
}
